// Command proposalpdf renders a proposal or quotation PDF from a JSON
// document description.
//
//	proposalpdf -in proposal.json -out proposal.pdf [-config config.json] [-email client@example.com]
//
// The optional config file supplies asset paths, image presets and SMTP
// settings:
//
//	{
//	  "assetDir": "assets",
//	  "workDir": "/var/tmp/proposals",
//	  "optimizeImages": true,
//	  "presets": {"cover": {"maxDim": 1600, "quality": 82}},
//	  "email": {"from": "sales@example.com"},
//	  "smtp": {"host": "smtp.example.com", "port": 587}
//	}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	proposalpdf "github.com/MackKirk/proposalpdf"
	"github.com/MackKirk/proposalpdf/delivery"
)

type presetConfig struct {
	MaxDim  int `json:"maxDim"`
	Quality int `json:"quality"`
}

type emailConfig struct {
	From string `json:"from"`
}

type config struct {
	AssetDir       string                  `json:"assetDir"`
	WorkDir        string                  `json:"workDir"`
	CacheDir       string                  `json:"cacheDir"`
	OptimizeImages *bool                   `json:"optimizeImages"`
	Presets        map[string]presetConfig `json:"presets"`
	ValidityDays   int                     `json:"validityDays"`
	Watermark      string                  `json:"watermark"`
	PageNumbers    bool                    `json:"pageNumbers"`
	Email          emailConfig             `json:"email"`
	SMTP           delivery.SMTPConfig     `json:"smtp"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func loadDocument(path string) (*proposalpdf.ProposalDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	var doc proposalpdf.ProposalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document file: %w", err)
	}
	return &doc, nil
}

func options(cfg *config) []proposalpdf.Option {
	var opts []proposalpdf.Option
	if cfg.AssetDir != "" {
		opts = append(opts, proposalpdf.WithAssetDir(cfg.AssetDir))
	}
	if cfg.WorkDir != "" {
		opts = append(opts, proposalpdf.WithWorkDir(cfg.WorkDir))
	}
	if cfg.CacheDir != "" {
		opts = append(opts, proposalpdf.WithCacheDir(cfg.CacheDir))
	}
	if cfg.OptimizeImages != nil {
		opts = append(opts, proposalpdf.WithOptimization(*cfg.OptimizeImages))
	}
	for name, p := range cfg.Presets {
		opts = append(opts, proposalpdf.WithImagePreset(name, p.MaxDim, p.Quality))
	}
	if cfg.ValidityDays > 0 {
		opts = append(opts, proposalpdf.WithValidityDays(cfg.ValidityDays))
	}
	if cfg.Watermark != "" {
		opts = append(opts, proposalpdf.WithDraftWatermark(cfg.Watermark))
	}
	if cfg.PageNumbers {
		opts = append(opts, proposalpdf.WithPageNumbers())
	}
	return opts
}

func main() {
	in := flag.String("in", "", "path to the JSON proposal document (required)")
	out := flag.String("out", "proposal.pdf", "output PDF path")
	cfgPath := flag.String("config", "", "optional JSON config file")
	email := flag.String("email", "", "optionally mail the result to this address")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *in == "" {
		fmt.Fprintln(os.Stderr, "proposalpdf: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := &config{}
	if *cfgPath != "" {
		loaded, err := loadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "proposalpdf: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	doc, err := loadDocument(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "proposalpdf: %v\n", err)
		os.Exit(1)
	}

	opts := append(options(cfg), proposalpdf.WithLogger(log))
	gen, err := proposalpdf.NewGenerator(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "proposalpdf: %v\n", err)
		os.Exit(1)
	}

	if err := gen.GenerateFile(doc, *out); err != nil {
		fmt.Fprintf(os.Stderr, "proposalpdf: %v\n", err)
		os.Exit(1)
	}
	log.Info("document written", "path", *out)

	if *email != "" {
		mailer := delivery.NewMailer(cfg.SMTP, cfg.Email.From)
		subject := "Proposal: " + doc.Title
		if doc.IsQuote {
			subject = "Quotation: " + doc.Title
		}
		if err := mailer.Send(*email, subject, "Please find the document attached.<br>", *out); err != nil {
			fmt.Fprintf(os.Stderr, "proposalpdf: %v\n", err)
			os.Exit(1)
		}
		log.Info("document mailed", "to", *email)
	}
}
