package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"DF-CONTRATOS/internal/models"
	"DF-CONTRATOS/internal/processor"
	"DF-CONTRATOS/internal/services"
	"DF-CONTRATOS/internal/templates"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type renderOptions struct {
	contractFile string
	templatePath string
	outputDir    string
	textOnly     bool
	force        bool
	gotenbergURL string
}

func newRenderCmd(app *cli) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render -c contract.yaml",
		Short: "Render a contract file to PDF (or plain text)",
		Long: `Reads a contract in YAML or JSON, fills the contract template and writes
the laid out document to the output directory. The file name is derived from
the student name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, warnings, err := runRender(cmd.Context(), app.logger, opts)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: unresolved placeholder %s\n", w)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.contractFile, "contract", "c", "", "contract file (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.templatePath, "template", "t", "", "template file or http(s) URL (default: built-in)")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.textOnly, "text", false, "write the paginated text instead of a PDF")
	cmd.Flags().BoolVar(&opts.force, "force", false, "render even if the contract does not validate")
	cmd.Flags().StringVar(&opts.gotenbergURL, "gotenberg", "", "convert through a Gotenberg server at this URL")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}

func loadContract(path string) (*models.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}
	// YAML is a superset of JSON, so both parse here.
	var contract models.Contract
	if err := yaml.Unmarshal(data, &contract); err != nil {
		return nil, fmt.Errorf("failed to parse contract %s: %w", path, err)
	}
	return &contract, nil
}

func runRender(ctx context.Context, logger *zap.Logger, opts *renderOptions) (string, []string, error) {
	contract, err := loadContract(opts.contractFile)
	if err != nil {
		return "", nil, err
	}

	if err := services.NewContractValidator().Validate(contract); err != nil {
		var fieldErrors services.FieldErrors
		if !errors.As(err, &fieldErrors) || !opts.force {
			return "", nil, err
		}
		logger.Warn("rendering invalid contract", zap.Error(err))
	}

	if strings.HasPrefix(opts.templatePath, "gs://") {
		return "", nil, fmt.Errorf("gs:// templates need the server; download the object first")
	}
	source, err := templates.Open(opts.templatePath, nil, &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		return "", nil, err
	}
	tmpl, err := source.Load(ctx)
	if err != nil {
		return "", nil, err
	}

	rendered := processor.NewTemplateRenderer(logger).Render(tmpl, contract)
	doc, err := processor.Paginate(rendered.Body, processor.DefaultLayout())
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := processor.SuggestFilename(contract.NomeAluno, strconv.FormatInt(time.Now().UnixMilli(), 10))

	var data []byte
	if opts.textOnly {
		filename = strings.TrimSuffix(filename, ".pdf") + ".txt"
		data = []byte(doc.Text())
	} else {
		var exporter services.Exporter = services.NewFPDFExporter()
		if opts.gotenbergURL != "" {
			exporter, err = services.NewGotenbergExporter(opts.gotenbergURL, "30s", 3, logger)
			if err != nil {
				return "", nil, err
			}
		}
		if data, err = exporter.Export(ctx, doc, filename); err != nil {
			return "", nil, err
		}
	}

	outPath := filepath.Join(opts.outputDir, filename)
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logger.Debug("contract rendered",
		zap.String("path", outPath),
		zap.Int("pages", doc.PageCount()),
		zap.String("template", source.Location()),
	)
	return outPath, rendered.Unresolved, nil
}
