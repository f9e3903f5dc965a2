package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client wraps Cloudinary image upload and deletion with delivery optimizations.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
	DeleteByURL(ctx context.Context, url string) error
}

// Optimized image params for fast frontend loading
const (
	ImageWidth = 800
	ThumbWidth = 200
)

// BuildOptimizedImageURL returns a Cloudinary URL with transformations for optimized delivery.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, width, publicID)
}

const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// UploadImage uploads an image with eager optimizations (auto quality, format, resize).
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	if result.Error.Message != "" {
		return "", "", errors.New(result.Error.Message)
	}
	url = result.SecureURL
	if len(result.Eager) > 0 {
		thumbnailURL = result.Eager[0].SecureURL
	}
	if thumbnailURL == "" {
		thumbnailURL = BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return url, thumbnailURL, nil
}

// DeleteByURL removes the image a delivery URL points to. URLs that are not
// Cloudinary uploads are ignored.
func (c *clientImpl) DeleteByURL(ctx context.Context, url string) error {
	publicID, ok := PublicIDFromURL(url)
	if !ok {
		return nil
	}
	result, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return errors.New(result.Error.Message)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL extracts the public ID from a Cloudinary delivery URL, e.g.
// https://res.cloudinary.com/demo/image/upload/v1712/calmspot/places/place_ab12.jpg
// gives "calmspot/places/place_ab12".
func PublicIDFromURL(url string) (string, bool) {
	if !strings.Contains(url, "res.cloudinary.com/") {
		return "", false
	}
	_, rest, found := strings.Cut(url, "/upload/")
	if !found || rest == "" {
		return "", false
	}
	rest, _, _ = strings.Cut(rest, "?")
	segments := strings.Split(rest, "/")
	for i, s := range segments {
		if versionSegment.MatchString(s) {
			segments = segments[i+1:]
			break
		}
	}
	// Leading transformation segments look like "w_800,c_fill".
	for len(segments) > 1 && strings.Contains(segments[0], "_") && strings.Contains(segments[0], ",") {
		segments = segments[1:]
	}
	id := strings.Join(segments, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
