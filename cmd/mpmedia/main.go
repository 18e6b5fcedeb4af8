package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	fp "path/filepath"
	"time"

	"github.com/go-shiori/mpmedia"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		logrus.Fatalln(err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mpmedia [url1] [url2] ... [urlN]",
		Short:        "CLI tool for extracting and downloading media of WeChat articles",
		Args:         cobra.ArbitraryArgs,
		RunE:         cmdHandler,
		SilenceUsage: true,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringP("config", "c", "", "path to config file (json, yaml or toml)")
	pflags.StringP("user-agent", "u", "", "set custom user agent")
	pflags.IntP("timeout", "t", 30, "maximum time (in second) before request timeout")
	pflags.Duration("delay", 500*time.Millisecond, "pause between two downloads")
	pflags.Int("max-retries", 0, "retry failed requests up to this many times")
	pflags.Bool("insecure", false, "skip X.509 (TLS) certificate verification")
	pflags.BoolP("quiet", "q", false, "disable logging")
	pflags.Bool("verbose", false, "more verbose logging")
	pflags.String("naming", string(mpmedia.NamingIndexed), "file naming, indexed or original")
	pflags.StringP("dir", "d", "downloads", "directory where media folders are created")

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "path to file which contains URLs")
	flags.String("input-html", "", "parse this saved HTML file instead of fetching the url")
	flags.StringP("output", "o", "", "path to save extraction record, the format follows its extension")
	flags.StringP("format", "f", string(mpmedia.FormatJSON), "format of generated record names, json or yaml")
	flags.Bool("url-list", false, "also save a plain text list of media URLs")
	flags.Bool("download", false, "download media without asking")
	flags.Bool("no-download", false, "only extract, never download")
	flags.Bool("no-covers", false, "don't collect video cover images")
	flags.Bool("style-images", false, "also collect images from inline style url()")
	cmd.MarkFlagsMutuallyExclusive("download", "no-download")

	cmd.AddCommand(newDownloadCmd())
	return cmd
}

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download [record1] [record2] ... [recordN]",
		Short: "Download media listed in saved extraction records",
		Args:  cobra.MinimumNArgs(1),
		RunE:  downloadHandler,
	}
}

func cmdHandler(cmd *cobra.Command, args []string) error {
	v, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, v)

	// Create initial list of URLs
	urls := append([]string{}, args...)

	inputPath := v.GetString("input")
	if inputPath != "" {
		newURLs, err := parseInputFile(inputPath)
		if err != nil {
			return err
		}
		urls = append(urls, newURLs...)
	}

	stdin := bufio.NewReader(cmd.InOrStdin())
	stdout := cmd.OutOrStdout()

	if len(urls) == 0 {
		url, err := readLine(stdin, stdout, "Enter WeChat article URL: ")
		if err != nil || url == "" {
			return fmt.Errorf("no url to process")
		}
		urls = append(urls, url)
	}

	htmlPath := v.GetString("input-html")
	outputPath := v.GetString("output")
	if len(urls) > 1 {
		if htmlPath != "" {
			return fmt.Errorf("--input-html can only be used with a single url")
		}
		if outputPath != "" && !isDirectory(outputPath) {
			return fmt.Errorf("--output must be a directory when there are several urls")
		}
	}

	cfg := clientConfig(v)
	extractor, err := mpmedia.NewExtractor(cfg)
	if err != nil {
		return err
	}

	downloader, err := mpmedia.NewDownloader(cfg)
	if err != nil {
		return err
	}

	// Process each url
	nFailed := 0
	for _, url := range urls {
		if len(urls) > 1 {
			logrus.Printf("extraction started for %s\n", url)
		}

		err := func() error {
			if err := mpmedia.ValidateReference(url); err != nil {
				return err
			}

			req := mpmedia.Request{URL: url}
			if htmlPath != "" {
				f, err := os.Open(htmlPath)
				if err != nil {
					return err
				}
				defer f.Close()
				req.Input = f
			}

			result, err := extractor.Extract(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := printResult(stdout, result); err != nil {
				return err
			}

			now := time.Now()
			if err := saveResult(stdout, v, result, now); err != nil {
				return err
			}

			if !shouldDownload(stdin, stdout, v, result) {
				return nil
			}

			return downloadResult(cmd, downloader, v.GetString("dir"), result)
		}()

		if err != nil {
			nFailed++
			fmt.Fprintf(stdout, "Error: %v\n", err)
		}

		// Create blank space separator to make it easier to see logs
		if len(urls) > 1 {
			fmt.Fprintln(stdout)
		}
	}

	if nFailed > 0 {
		return fmt.Errorf("%d of %d articles failed", nFailed, len(urls))
	}

	return nil
}

func downloadHandler(cmd *cobra.Command, args []string) error {
	v, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, v)

	downloader, err := mpmedia.NewDownloader(clientConfig(v))
	if err != nil {
		return err
	}

	for _, path := range args {
		result, err := mpmedia.LoadRecord(path)
		if err != nil {
			return err
		}

		logrus.Printf("download started for %s\n", result.URL)
		if err := downloadResult(cmd, downloader, v.GetString("dir"), result); err != nil {
			return err
		}
	}

	return nil
}

func printResult(w io.Writer, result *mpmedia.Result) error {
	fmt.Fprintf(w, "Found %d images and %d videos\n\n", len(result.Images), len(result.Videos))
	if err := mpmedia.WriteURLList(w, result); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)
	return err
}

// saveResult writes the extraction record and, when asked, the URL list.
func saveResult(w io.Writer, v *viper.Viper, result *mpmedia.Result, now time.Time) error {
	outputDir := ""
	recordPath := v.GetString("output")

	if recordPath == "" || isDirectory(recordPath) {
		outputDir = recordPath
		format := mpmedia.Format(v.GetString("format"))
		recordPath = fp.Join(outputDir, recordFileName(now, format))
	} else {
		outputDir = fp.Dir(recordPath)
	}

	if err := mpmedia.SaveRecord(recordPath, result); err != nil {
		return err
	}
	fmt.Fprintf(w, "Record saved to %s\n", recordPath)

	if !v.GetBool("url-list") {
		return nil
	}

	listPath := fp.Join(outputDir, urlListFileName(now))
	f, err := os.Create(listPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", listPath)
	}
	defer f.Close()

	if err := mpmedia.WriteURLList(f, result); err != nil {
		return errors.Wrapf(err, "failed to write %s", listPath)
	}
	fmt.Fprintf(w, "URL list saved to %s\n", listPath)

	return f.Close()
}

func shouldDownload(r *bufio.Reader, w io.Writer, v *viper.Viper, result *mpmedia.Result) bool {
	switch {
	case len(result.Images) == 0 && len(result.Videos) == 0:
		return false
	case v.GetBool("no-download"):
		return false
	case v.GetBool("download"):
		return true
	default:
		return askYesNo(r, w, "Download media files?")
	}
}

func downloadResult(cmd *cobra.Command, downloader *mpmedia.Downloader, dir string, result *mpmedia.Result) error {
	manifest, enriched, err := downloader.DownloadResult(cmd.Context(), result, dir)
	if err != nil {
		return err
	}

	nImages := countSuccess(enriched.DownloadedImages)
	nVideos := countSuccess(enriched.DownloadedVideos)
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d/%d images and %d/%d videos into %s\n",
		nImages, len(enriched.DownloadedImages),
		nVideos, len(enriched.DownloadedVideos),
		manifest.DownloadFolder)

	return nil
}

func countSuccess(outcomes []mpmedia.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Success {
			n++
		}
	}
	return n
}
