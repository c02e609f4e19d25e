package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tender-service/internal/config"
	"tender-service/internal/enrich"
	"tender-service/internal/extract"
	"tender-service/internal/tender/catalog"
	"tender-service/internal/tender/model"
	"tender-service/internal/tender/parser"
	"tender-service/internal/tender/report"
	"tender-service/internal/tender/service"
)

// Ответ всегда одной формы: лог, таблица, книга (base64). Книга отсутствует
// ровно тогда, когда прогон упал — тогда заполнен error.
type response struct {
	Log       string           `json:"log"`
	Rows      []report.Row     `json:"rows"`
	RowErrors []model.RowError `json:"rowErrors,omitempty"`
	Workbook  []byte           `json:"workbook,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Process возвращает http.HandlerFunc для POST /process:
// multipart c полями spec (ТЗ, PDF), prices (1..N прайсов), discounts (опц.).
func Process(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-ID")
		log := logger
		if reqID != "" {
			log = logger.With().Str("req_id", reqID).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		specFile, _, err := r.FormFile("spec")
		if err != nil {
			http.Error(w, "missing spec: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer specFile.Close()

		priceHeaders := r.MultipartForm.File["prices"]
		if len(priceHeaders) == 0 {
			http.Error(w, "missing prices", http.StatusBadRequest)
			return
		}
		var sources []catalog.Source
		for _, fh := range priceHeaders {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "failed to open price list "+fh.Filename+": "+err.Error(), http.StatusBadRequest)
				return
			}
			defer f.Close()
			// имя файла — ключ поставщика
			sources = append(sources, catalog.Source{Name: fh.Filename, Reader: f})
		}

		in := service.Inputs{Spec: specFile, Prices: sources}
		if f, fh, err := r.FormFile("discounts"); err == nil {
			defer f.Close()
			in.Discounts = f
			in.DiscountsName = fh.Filename
		}

		opt := service.Options{
			EnableOCRFallback: toBool(r.FormValue("ocr"), true),
			EnrichmentEnabled: toBool(r.FormValue("enrich"), cfg.OpenAIKey != ""),
			VerboseLog:        toBool(r.FormValue("verbose_log"), false),
			MaxCandidates:     atoi(r.FormValue("max_candidates"), 3),
			EnableFuzzy:       toBool(r.FormValue("fuzzy"), false),
			Threshold:         toFloat(r.FormValue("threshold"), 0.83),
			Keywords:          splitCSV(r.FormValue("keywords")),
		}

		extractor := extract.New(extract.Config{
			Pdftoppm:  cfg.Pdftoppm,
			Tesseract: cfg.Tesseract,
			Lang:      cfg.OCRLang,
			DPI:       cfg.OCRDPI,
			EnableOCR: opt.EnableOCRFallback,
		}, log)

		enricher := enrich.New(enrich.NewClient(enrich.ClientConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		}, log), cfg.EnrichWorkers, log)

		pipe := service.New(extractor, enricher, parser.Requirements, cfg.TemplatePath, log)

		res, err := pipe.Process(r.Context(), in, opt)

		out := response{
			Log:       res.Log,
			Rows:      res.Rows,
			RowErrors: res.RowErrors,
			Workbook:  res.Workbook,
		}
		if err != nil {
			out.Error = err.Error()
			out.Log = "[ERROR] " + err.Error()
			out.Rows = nil
			out.Workbook = nil
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			log.Error().Err(encErr).Msg("write json")
			return
		}

		log.Info().
			Int("rows", len(res.Rows)).
			Int("row_errors", len(res.RowErrors)).
			Bool("workbook", len(res.Workbook) > 0).
			Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("process done")
	}
}
