package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"

	"github.com/spf13/cobra"

	"igmobile/pkg/instagram"
	"igmobile/pkg/upload"
)

var (
	caption       string
	thumbnailPath string
	videoWidth    int
	videoHeight   int
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Publish a photo or a video",
}

var uploadPhotoCmd = &cobra.Command{
	Use:     "photo <file.jpg>",
	Short:   "Publish a JPEG photo",
	Example: `  igmobile upload photo -u alice beach.jpg --caption "sunset"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readImage(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			m, err := c.UploadPhoto(ctx, img, caption)
			if err != nil {
				return err
			}
			out.Success("Photo published")
			out.Info("Media ID", m.ID)
			return nil
		}))
	},
}

var uploadVideoCmd = &cobra.Command{
	Use:   "video <file.mp4>",
	Short: "Publish an MP4 video with a JPEG thumbnail",
	Long: `Publish an MP4 video. The video is sent in two chunks after the server
handed out the upload destinations; the duration is read from the file.`,
	Example: `  igmobile upload video -u alice clip.mp4 --thumbnail clip.jpg --width 720 --height 1280`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read video: %w", err)
		}
		thumb, err := readImage(thumbnailPath)
		if err != nil {
			return err
		}
		width, height := videoWidth, videoHeight
		if width == 0 || height == 0 {
			width, height = thumb.Width, thumb.Height
		}

		video := upload.Video{Data: data, Width: width, Height: height}
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			m, err := c.UploadVideo(ctx, video, thumb, caption)
			if err != nil {
				return err
			}
			out.Success("Video published")
			out.Info("Media ID", m.ID)
			return nil
		}))
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.AddCommand(uploadPhotoCmd, uploadVideoCmd)

	uploadCmd.PersistentFlags().StringVar(&caption, "caption", "", "post caption")
	uploadVideoCmd.Flags().StringVar(&thumbnailPath, "thumbnail", "", "JPEG thumbnail (required)")
	uploadVideoCmd.Flags().IntVar(&videoWidth, "width", 0, "video width (default: thumbnail width)")
	uploadVideoCmd.Flags().IntVar(&videoHeight, "height", 0, "video height (default: thumbnail height)")
	_ = uploadVideoCmd.MarkFlagRequired("thumbnail")
}

// readImage loads a JPEG and reads its dimensions
func readImage(path string) (upload.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return upload.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	conf, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return upload.Image{}, fmt.Errorf("failed to read image size: %w", err)
	}
	if format != "jpeg" {
		return upload.Image{}, fmt.Errorf("%s is a %s image, only JPEG is supported", path, format)
	}
	return upload.Image{Data: data, Width: conf.Width, Height: conf.Height}, nil
}
