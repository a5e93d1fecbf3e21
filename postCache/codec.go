package postcache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"feedcache/models"
)

// postFields is the full hash schema. Every key is written on encode,
// empty fields included, so decode never has to distinguish "field
// unset" from "field missing".
var postFields = []string{
	"_id",
	"userId",
	"username",
	"email",
	"avatarColor",
	"profilePicture",
	"post",
	"bgColor",
	"feelings",
	"privacy",
	"gifUrl",
	"commentsCount",
	"reactions",
	"imgVersion",
	"imgId",
	"videoVersion",
	"videoId",
	"createdAt",
}

func encodePost(p models.Post) (map[string]string, error) {
	reactions := []byte("{}")
	if p.Reactions != nil {
		var err error
		reactions, err = json.Marshal(p.Reactions)
		if err != nil {
			return nil, fmt.Errorf("marshal reactions: %w", err)
		}
	}

	createdAt := ""
	if !p.CreatedAt.IsZero() {
		createdAt = p.CreatedAt.Format(time.RFC3339Nano)
	}

	return map[string]string{
		"_id":            p.ID,
		"userId":         p.UserID,
		"username":       p.Username,
		"email":          p.Email,
		"avatarColor":    p.AvatarColor,
		"profilePicture": p.ProfilePicture,
		"post":           p.Post,
		"bgColor":        p.BgColor,
		"feelings":       p.Feelings,
		"privacy":        p.Privacy,
		"gifUrl":         p.GifUrl,
		"commentsCount":  strconv.FormatInt(p.CommentsCount, 10),
		"reactions":      string(reactions),
		"imgVersion":     p.ImgVersion,
		"imgId":          p.ImgID,
		"videoVersion":   p.VideoVersion,
		"videoId":        p.VideoID,
		"createdAt":      createdAt,
	}, nil
}

// decodePost rebuilds a post from its stored hash. An empty map (a
// dangling index member whose record was never written) decodes to a
// zero-value post with no error. A record that exists but carries a
// malformed numeric, JSON or time field returns ErrCorruptRecord.
func decodePost(fields map[string]string) (models.Post, error) {
	if len(fields) == 0 {
		return models.Post{}, nil
	}

	p := models.Post{
		ID:             fields["_id"],
		UserID:         fields["userId"],
		Username:       fields["username"],
		Email:          fields["email"],
		AvatarColor:    fields["avatarColor"],
		ProfilePicture: fields["profilePicture"],
		Post:           fields["post"],
		BgColor:        fields["bgColor"],
		Feelings:       fields["feelings"],
		Privacy:        fields["privacy"],
		GifUrl:         fields["gifUrl"],
		ImgVersion:     fields["imgVersion"],
		ImgID:          fields["imgId"],
		VideoVersion:   fields["videoVersion"],
		VideoID:        fields["videoId"],
	}

	count, err := strconv.ParseInt(fields["commentsCount"], 10, 64)
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: commentsCount %q", ErrCorruptRecord, fields["commentsCount"])
	}
	p.CommentsCount = count

	if raw := fields["reactions"]; raw != "" {
		var reactions models.Reactions
		if err := json.Unmarshal([]byte(raw), &reactions); err != nil {
			return models.Post{}, fmt.Errorf("%w: reactions %q", ErrCorruptRecord, raw)
		}
		if len(reactions) > 0 {
			p.Reactions = reactions
		}
	}

	if raw := fields["createdAt"]; raw != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.Post{}, fmt.Errorf("%w: createdAt %q", ErrCorruptRecord, raw)
		}
		p.CreatedAt = createdAt
	}

	return p, nil
}
