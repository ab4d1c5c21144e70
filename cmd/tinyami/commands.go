package main

import (
	"fmt"
	"strconv"
	"time"
	"tinyami"
	"tinyami/internal/adapters/file"
	"tinyami/internal/core/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) uploadCmd() *cobra.Command {
	var (
		concurrency int
		wait        bool
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload local image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.getClient()
			if err != nil {
				return err
			}

			results := service.NewBatchUploader(client, concurrency).Upload(cmd.Context(), args)

			var poller *service.StatusPoller
			if wait {
				poller = service.NewStatusPoller(client, interval)
			}

			failed := 0
			for i, res := range results {
				if res.Err != nil {
					failed++
					continue
				}
				if poller == nil {
					continue
				}

				id, err := strconv.ParseInt(res.Response.ID.String(), 10, 64)
				if err != nil {
					log.Warn().Str("id", res.Response.ID.String()).Msg("cannot wait for non-numeric image id")
					continue
				}

				status, err := poller.Wait(cmd.Context(), id)
				if status != nil {
					results[i].Response = status
				}
				if err != nil {
					results[i].Err = err
					failed++
				}
			}

			if err := printJSON(cmd.OutOrStdout(), uploadReport(results)); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", service.DefaultConcurrency, "uploads in flight")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until every image is processed")
	cmd.Flags().DurationVar(&interval, "interval", service.DefaultPollInterval, "poll interval with --wait")

	return cmd
}

type uploadEntry struct {
	Path   string               `json:"path"`
	Result *tinyami.ImageStatus `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func uploadReport(results []service.UploadResult) []uploadEntry {
	report := make([]uploadEntry, 0, len(results))
	for _, res := range results {
		entry := uploadEntry{Path: res.Path, Result: res.Response}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		report = append(report, entry)
	}
	return report
}

func (a *app) uploadURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-url <url>",
		Short: "Upload an image the service fetches from a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.UploadImageFromURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <id> <format>",
		Short: "Request an optimized rendition (jpg, jpeg, png, webp or avif)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.OptimizeImage(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>",
		Short: "Show the processing status of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.GetImageInfo(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			if err := client.DeleteImage(cmd.Context(), id); err != nil {
				return err
			}
			log.Info().Int64("imageId", id).Msg("image deleted")
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.GetImagesList(cmd.Context(), tinyami.WithPage(page), tinyami.WithLimit(limit))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "images per page")

	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <id> <type>",
		Short: "Convert an image to another format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.ConvertImage(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) resizeCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "resize <id> <method>",
		Short: "Create a resized variant of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.ResizeImage(cmd.Context(), id, args[1], width, height)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "target width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "target height in pixels")

	return cmd
}

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats <id>",
		Short: "List the formats generated for an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.GetImageFormats(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) variantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants <id>",
		Short: "List the variants generated for an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			res, err := client.GetImageVariants(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) deleteFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-format <id> <formatId>",
		Short: "Delete one format of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			formatID, err := parseID("format id", args[1])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			if err := client.DeleteImageFormat(cmd.Context(), id, formatID); err != nil {
				return err
			}
			log.Info().Int64("imageId", id).Int64("formatId", formatID).Msg("format deleted")
			return nil
		},
	}
}

func (a *app) deleteVariantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-variant <id> <variantId>",
		Short: "Delete one variant of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			variantID, err := parseID("variant id", args[1])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			if err := client.DeleteImageVariant(cmd.Context(), id, variantID); err != nil {
				return err
			}
			log.Info().Int64("imageId", id).Int64("variantId", variantID).Msg("variant deleted")
			return nil
		},
	}
}

func (a *app) waitCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "wait <id>",
		Short: "Wait until an image is processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image id", args[0])
			if err != nil {
				return err
			}
			client, err := a.getClient()
			if err != nil {
				return err
			}

			status, waitErr := service.NewStatusPoller(client, interval).Wait(cmd.Context(), id)
			if status != nil {
				if err := printJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
			}
			return waitErr
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", service.DefaultPollInterval, "poll interval")

	return cmd
}

func (a *app) downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <url> <dest>",
		Short: "Download a processed image to a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := file.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := file.Save(args[1], data); err != nil {
				return err
			}
			log.Info().Str("dest", args[1]).Int("bytes", len(data)).Msg("image downloaded")
			return nil
		},
	}
}
