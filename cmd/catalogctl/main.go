package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"wallpaper-catalog/internal/catalog"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/imageproc"
	"wallpaper-catalog/internal/logger"
	"wallpaper-catalog/internal/services"
	"wallpaper-catalog/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logger.Init("development", os.Getenv("LOG_LEVEL"))

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "catalogctl",
		Usage:  "inspect and maintain the wallpaper catalog",
		Writer: out,
		Commands: []*cli.Command{
			listCommand(),
			manifestCommand(),
			checkCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list wallpapers from the API, falling back to the manifest or sample data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "API base URL, e.g. http://localhost:5001/api", EnvVars: []string{"CATALOG_API_URL"}},
			&cli.StringFlag{Name: "manifest", Usage: "image manifest used when the API is unreachable", EnvVars: []string{"CATALOG_MANIFEST"}},
			&cli.StringFlag{Name: "assets-url", Value: "/assets", Usage: "URL prefix for manifest entries"},
			&cli.StringFlag{Name: "page-type", Usage: "page type filter"},
			&cli.StringFlag{Name: "category", Usage: "category filter"},
			&cli.StringFlag{Name: "color", Usage: "color filter"},
			&cli.BoolFlag{Name: "json", Usage: "print the listing as JSON"},
		},
		Action: func(c *cli.Context) error {
			client := catalog.NewClient(c.String("api"))
			if m := c.String("manifest"); m != "" {
				client.WithManifest(m, c.String("assets-url"))
			}

			res := client.Wallpapers(c.Context, catalog.Query{
				PageType: c.String("page-type"),
				Category: c.String("category"),
				Color:    c.String("color"),
			})

			w := c.App.Writer
			if c.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Items)
			}

			fmt.Fprintf(w, "%d wallpaper(s) from %s\n", len(res.Items), res.Origin)
			for _, item := range res.Items {
				fmt.Fprintf(w, "%6d  %-12s %-20s %-8s %s\n", item.ID, item.PageType, item.Category, item.Color, item.Name)
			}
			facets := catalog.FacetsOf(res.Items)
			fmt.Fprintf(w, "categories: %v\ncolors: %v\n", facets.Categories, facets.Colors)
			return nil
		},
	}
}

func manifestCommand() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "write the image manifest for an assets directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "assets", Value: "assets", Usage: "assets directory to scan"},
			&cli.StringFlag{Name: "out", Value: "image-manifest.json", Usage: "manifest file to write"},
		},
		Action: func(c *cli.Context) error {
			entries, err := catalog.GenerateManifest(c.String("assets"))
			if err != nil {
				return err
			}
			if err := catalog.WriteManifest(c.String("out"), entries); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Image manifest generated successfully! %d image(s) written to %s\n", len(entries), c.String("out"))
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "report wallpapers whose files are missing from the uploads directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db-driver", Value: database.DriverSQLite, EnvVars: []string{"DB_DRIVER"}},
			&cli.StringFlag{Name: "db", Value: "data/wallpapers.db", Usage: "sqlite database path", EnvVars: []string{"DB_PATH"}},
			&cli.StringFlag{Name: "database-url", Usage: "postgres connection string", EnvVars: []string{"DATABASE_URL"}},
			&cli.StringFlag{Name: "uploads", Value: "public/uploads", EnvVars: []string{"UPLOADS_DIR"}},
			&cli.StringFlag{Name: "uploads-url", Value: "/uploads", EnvVars: []string{"UPLOADS_URL_PREFIX"}},
		},
		Action: func(c *cli.Context) error {
			dsn := c.String("db")
			if c.String("db-driver") == database.DriverPostgres {
				dsn = c.String("database-url")
			}
			store, err := database.Open(c.String("db-driver"), dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(c.Context, time.Minute)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return err
			}
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			applied, err := store.AppliedMigrations(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "database: %s, %d migration(s) applied\n", store.Driver(), len(applied))

			files, err := storage.NewLocal(c.String("uploads"), c.String("uploads-url"), 0, 0)
			if err != nil {
				return err
			}
			svc := services.NewWallpaperService(store, files, imageproc.NewProcessor(files), 1, 1)

			missing, err := svc.MissingFiles(ctx)
			if err != nil {
				return err
			}
			return printMissing(c.App.Writer, missing)
		},
	}
}

func printMissing(w io.Writer, missing map[int64][]string) error {
	if len(missing) == 0 {
		_, err := fmt.Fprintln(w, "all wallpaper files present")
		return err
	}

	ids := make([]int64, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		for _, p := range missing[id] {
			fmt.Fprintf(w, "wallpaper %d: missing %s\n", id, p)
		}
	}
	return fmt.Errorf("%d wallpaper(s) with missing files", len(missing))
}
