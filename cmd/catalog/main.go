package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"team_achievements/internal/adapters"
	"team_achievements/internal/bootstrap"
	"team_achievements/internal/domain/achievement"
	"team_achievements/internal/repository"
	achievementsUC "team_achievements/internal/usecase/achievements"
)

const placeholderBase = "https://via.placeholder.com/150"

type options struct {
	envFile          string
	list             bool
	id               string
	name             string
	description      string
	imageURL         string
	imageFile        string
	placeholderText  string
	placeholderEmoji string
	color            string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("catalog", pflag.ContinueOnError)
	fs.StringVar(&opts.envFile, "env", ".env", "env file with storage settings")
	fs.BoolVar(&opts.list, "list", false, "print the catalog and exit")
	fs.StringVar(&opts.id, "id", "", "achievement id, e.g. speed_runner")
	fs.StringVar(&opts.name, "name", "", "display name")
	fs.StringVar(&opts.description, "description", "", "description")
	fs.StringVar(&opts.imageURL, "image-url", "", "full image URL")
	fs.StringVar(&opts.imageFile, "image-file", "", "file name under the frontend /images/ directory")
	fs.StringVar(&opts.placeholderText, "placeholder-text", "", "placeholder image with this text")
	fs.StringVar(&opts.placeholderEmoji, "placeholder-emoji", "", "placeholder image with this emoji")
	fs.StringVar(&opts.color, "color", "4CAF50", "placeholder background colour")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// resolveImageURL resolves the image options. At most one may be given; with none
// a placeholder showing the achievement name is used.
func (o *options) resolveImageURL() (string, error) {
	set := 0
	for _, v := range []string{o.imageURL, o.imageFile, o.placeholderText, o.placeholderEmoji} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", errors.New("use only one of --image-url, --image-file, --placeholder-text, --placeholder-emoji")
	}

	switch {
	case o.imageURL != "":
		return o.imageURL, nil
	case o.imageFile != "":
		return "/images/" + o.imageFile, nil
	case o.placeholderText != "":
		return placeholder(o.color, o.placeholderText), nil
	case o.placeholderEmoji != "":
		return placeholder(o.color, o.placeholderEmoji), nil
	default:
		return placeholder("4CAF50", o.name), nil
	}
}

func placeholder(color, text string) string {
	return fmt.Sprintf("%s/%s/FFFFFF?text=%s", placeholderBase, color, url.QueryEscape(text))
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := bootstrap.Setup(opts.envFile)
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	log := logger.Sugar()
	defer log.Sync()

	ctx := context.Background()
	storage, err := adapters.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer storage.Close(ctx)

	store := repository.NewJSONStore(storage.Docs, log)
	if err = store.Seed(ctx); err != nil {
		return err
	}
	ledger := achievementsUC.NewAchievementUseCase(store, nil, log, cfg.AdminUsername)

	return execute(ctx, opts, ledger, out)
}

func execute(ctx context.Context, opts *options, ledger *achievementsUC.AchievementUseCase, out io.Writer) error {
	if opts.list {
		catalog, err := ledger.Catalog(ctx)
		if err != nil {
			return err
		}
		return printCatalog(out, catalog)
	}

	imageURL, err := opts.resolveImageURL()
	if err != nil {
		return err
	}
	item := achievement.Achievement{
		ID:          strings.TrimSpace(opts.id),
		Name:        strings.TrimSpace(opts.name),
		Description: strings.TrimSpace(opts.description),
		ImageURL:    imageURL,
	}
	if err = ledger.AddAchievement(ctx, item); err != nil {
		return err
	}
	fmt.Fprintf(out, "Achievement '%s' added successfully\n", item.Name)
	return nil
}

func printCatalog(out io.Writer, catalog []achievement.Achievement) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tIMAGE")
	for _, item := range catalog {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.Name, item.ImageURL)
	}
	return w.Flush()
}
