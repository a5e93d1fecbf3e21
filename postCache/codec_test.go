package postcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedcache/models"
)

func fullPost() models.Post {
	return models.Post{
		ID:             "64f0a1b2c3d4e5f6a7b8c9d0",
		UserID:         "user-17",
		Username:       "danny",
		Email:          "danny@example.com",
		AvatarColor:    "#9c27b0",
		ProfilePicture: "https://cdn.example.com/danny.png",
		Post:           "first snow of the year",
		BgColor:        "#ffffff",
		Feelings:       "excited",
		Privacy:        "Public",
		GifUrl:         "https://giphy.example.com/snow.gif",
		CommentsCount:  12,
		ImgVersion:     "1691234567",
		ImgID:          "img-884",
		VideoVersion:   "",
		VideoID:        "",
		Reactions:      models.Reactions{"like": 4, "love": 2, "wow": 1},
		CreatedAt:      time.Date(2024, 11, 3, 9, 15, 42, 120000000, time.UTC),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	post := fullPost()

	fields, err := encodePost(post)
	require.NoError(t, err)

	decoded, err := decodePost(fields)
	require.NoError(t, err)
	assert.Equal(t, post, decoded)
}

func TestEncodeWritesEveryField(t *testing.T) {
	fields, err := encodePost(models.Post{})
	require.NoError(t, err)

	assert.Len(t, fields, len(postFields))
	for _, field := range postFields {
		_, ok := fields[field]
		assert.True(t, ok, "missing field %s", field)
	}
	assert.Equal(t, "0", fields["commentsCount"])
	assert.Equal(t, "{}", fields["reactions"])
	assert.Equal(t, "", fields["createdAt"])
}

func TestDecodeEmptyRecord(t *testing.T) {
	// A dangling index member resolves to an empty hash. That must
	// decode to a zero-value post, not fail.
	post, err := decodePost(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, models.Post{}, post)
}

func TestDecodeCorruptFields(t *testing.T) {
	base, err := encodePost(fullPost())
	require.NoError(t, err)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "non numeric commentsCount", field: "commentsCount", value: "twelve"},
		{name: "missing commentsCount", field: "commentsCount", value: ""},
		{name: "malformed reactions", field: "reactions", value: "{like:"},
		{name: "unparseable createdAt", field: "createdAt", value: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := make(map[string]string, len(base))
			for k, v := range base {
				fields[k] = v
			}
			fields[tt.field] = tt.value

			_, err := decodePost(fields)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}

func TestDecodeZeroValueRoundTrip(t *testing.T) {
	fields, err := encodePost(models.Post{})
	require.NoError(t, err)

	decoded, err := decodePost(fields)
	require.NoError(t, err)
	assert.Equal(t, models.Post{}, decoded)
}
