package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	url := EncodeDataURL("audio/ogg", []byte{0x4f, 0x67, 0x67, 0x53})
	assert.Equal(t, "data:audio/ogg;base64,T2dnUw==", url)

	mime, data, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", mime)
	assert.Equal(t, []byte("OggS"), data)

	mime, _, err = DecodeDataURL("data:audio/webm;codecs=opus;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "audio/webm", mime)

	for _, bad := range []string{"", "audio/webm;base64,AAAA", "data:audio/webm;base64", "data:text/plain,hello", "data:audio/webm;base64,@@@"} {
		_, _, err := DecodeDataURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestDataURLSize(t *testing.T) {
	for n := 0; n <= 7; n++ {
		url := EncodeDataURL("audio/webm;codecs=opus", make([]byte, n))
		mime, size, err := DataURLSize(url)
		require.NoError(t, err)
		assert.Equal(t, "audio/webm", mime)
		assert.Equal(t, n, size)
	}

	for _, bad := range []string{"", "data:audio/webm;base64", "data:text/plain,hello", "data:audio/webm;base64,AAA"} {
		_, _, err := DataURLSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".webm", Extension("audio/webm"))
	assert.Equal(t, ".ogg", Extension("audio/ogg"))
	assert.Equal(t, ".m4a", Extension("audio/mp4"))
	assert.Equal(t, ".audio", Extension("audio/x-unknown"))
}

func TestSelectFormat(t *testing.T) {
	webm, ogg, mp4 := PreferredFormats[0], PreferredFormats[1], PreferredFormats[3]

	f, ok := SelectFormat([]Format{mp4, ogg, webm})
	require.True(t, ok)
	assert.Equal(t, "webm", f.Name)

	f, ok = SelectFormat([]Format{mp4, ogg})
	require.True(t, ok)
	assert.Equal(t, "ogg", f.Name)

	custom := Format{Name: "wav", MimeType: "audio/wav", Muxer: "wav", Codec: "pcm_s16le"}
	f, ok = SelectFormat([]Format{custom})
	require.True(t, ok)
	assert.Equal(t, custom, f)

	_, ok = SelectFormat(nil)
	assert.False(t, ok)
}
