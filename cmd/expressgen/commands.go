package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"git.gogacoder.ru/NTO/expressgen/internal"
)

// projectFlags are shared by init and plan.
type projectFlags struct {
	config    string
	name      string
	database  string
	port      int
	models    []string
	modelsDir string
	force     bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "project file (expressgen.yaml)")
	cmd.Flags().StringVar(&f.name, "name", "", "application name (default: output directory name)")
	cmd.Flags().StringVar(&f.database, "db", "", "MongoDB connection URL baked into server.js")
	cmd.Flags().IntVar(&f.port, "port", internal.DefaultPort, "default listening port")
	cmd.Flags().StringArrayVar(&f.models, "model", nil, "model as name:field=Type,... (repeatable)")
	cmd.Flags().StringVar(&f.modelsDir, "models-dir", "", "directory of Go structs to read models from")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "overwrite existing files")
}

// project assembles the project from the config file and flags. Flags
// override file values; models from every source are appended.
func (f *projectFlags) project(ctx context.Context, cmd *cobra.Command, dir string) (*internal.Project, error) {
	p := &internal.Project{Port: internal.DefaultPort}
	if f.config != "" {
		loaded, err := internal.LoadProject(f.config)
		if err != nil {
			return nil, err
		}
		p = loaded
	}
	if cmd.Flags().Changed("name") {
		p.Name = f.name
	}
	if cmd.Flags().Changed("db") {
		p.Database = f.database
	}
	if cmd.Flags().Changed("port") {
		p.Port = f.port
	}
	if p.Name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		p.Name = filepath.Base(abs)
	}
	for _, value := range f.models {
		r, err := internal.ParseModelFlag(value)
		if err != nil {
			return nil, err
		}
		p.Models = append(p.Models, r)
	}
	if f.modelsDir != "" {
		resources, warnings, err := internal.LoadGoModels(f.modelsDir)
		if err != nil {
			return nil, fmt.Errorf("load models from %s: %w", f.modelsDir, err)
		}
		for _, w := range warnings {
			log.Warnf(ctx, "skipping field %s", w)
		}
		for _, r := range resources {
			log.Print(ctx, log.KV{K: "msg", V: "found model"}, log.KV{K: "model", V: r.Name}, log.KV{K: "fields", V: len(r.Fields)})
		}
		p.Models = append(p.Models, resources...)
	}
	return p, nil
}

func outputDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// warnProject logs the weaknesses the generator reproduces on purpose.
func warnProject(ctx context.Context, p *internal.Project) {
	for _, field := range p.UnmappedFields() {
		log.Warnf(ctx, "field %s has no swagger type; its documentation will carry an empty type", field)
	}
	report, err := internal.InspectURL(p.Database)
	if err != nil {
		log.Warnf(ctx, "database url does not parse as a MongoDB connection string: %v", err)
		return
	}
	if report.Credentials {
		log.Warnf(ctx, "database url embeds credentials for user %q; they will be stored in plain text in server.js", report.Username)
	}
}

func newInitCmd() *cobra.Command {
	var flags projectFlags
	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Generate an Express CRUD project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := outputDir(args)
			p, err := flags.project(ctx, cmd, dir)
			if err != nil {
				return err
			}
			files, err := internal.Generate(p, internal.Meta{Version: version})
			if err != nil {
				return err
			}
			warnProject(ctx, p)

			results, err := internal.WriteProject(dir, files, flags.force)
			for _, r := range results {
				log.Info(ctx, log.KV{K: "msg", V: string(r.Status)}, log.KV{K: "file", V: r.Path})
			}
			if err != nil {
				return err
			}
			log.Printf(ctx, "generated %s with %d models in %s", p.Name, len(p.Models), dir)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPlanCmd() *cobra.Command {
	var flags projectFlags
	cmd := &cobra.Command{
		Use:   "plan [DIR]",
		Short: "List the files init would write",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := outputDir(args)
			p, err := flags.project(ctx, cmd, dir)
			if err != nil {
				return err
			}
			files, err := internal.Generate(p, internal.Meta{Version: version})
			if err != nil {
				return err
			}
			warnProject(ctx, p)

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				status, err := internal.PlanStatus(dir, file, flags.force)
				if err != nil {
					return err
				}
				rows = append(rows, []string{file.Path, strconv.Itoa(len(file.Content)), string(status)})
			}
			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
			)
			table.Header([]string{"File", "Bytes", "Action"})
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
	flags.register(cmd)
	return cmd
}

func newDoctorCmd() *cobra.Command {
	var (
		database string
		ping     bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the database URL a project would embed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			report, err := internal.InspectURL(database)
			if err != nil {
				return err
			}
			log.Info(ctx,
				log.KV{K: "msg", V: "database url"},
				log.KV{K: "scheme", V: report.Scheme},
				log.KV{K: "hosts", V: strings.Join(report.Hosts, ",")},
				log.KV{K: "database", V: report.Database},
			)
			if report.Credentials {
				log.Warnf(ctx, "url embeds credentials for user %q; generated servers store them in plain text", report.Username)
			}
			if !ping {
				return nil
			}
			if err := internal.Ping(ctx, database, timeout); err != nil {
				return err
			}
			log.Printf(ctx, "database reachable")
			return nil
		},
	}
	cmd.Flags().StringVar(&database, "db", "", "MongoDB connection URL")
	cmd.Flags().BoolVar(&ping, "ping", false, "connect and ping the primary")
	cmd.Flags().DurationVar(&timeout, "timeout", internal.DefaultPingTimeout, "ping timeout")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
