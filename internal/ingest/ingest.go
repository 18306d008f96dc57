// Package ingest loads raw tweet exports into the trend store: CSV parsing,
// text cleaning, keyword extraction, and batch embedding with a fixed
// request-rate back-off toward the embedding service.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"trendspotter/internal/embed"
	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
	"trendspotter/internal/trend"
)

// RecordSaver persists batches of records. *store.Store satisfies it.
type RecordSaver interface {
	SaveRecords(collection string, records []trend.Record) (int, error)
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// CleanText strips URLs and collapses runs of whitespace. The text itself
// keeps its casing; it is shown to users verbatim later.
func CleanText(s string) string {
	s = urlPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// CleanKeywords lowercases, trims, and drops empty keywords.
func CleanKeywords(keywords []string) []string {
	var cleaned []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return cleaned
}

// Row is one parsed CSV line before embedding.
type Row struct {
	Text     string
	Location string
	Likes    int
	Keywords []string
}

// LoadCSV parses a tweet export. The header must carry a "text" column;
// "location", "likes", and "keywords" (comma-separated) are optional.
// Rows whose cleaned text is empty are dropped.
func LoadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}

	index := func(name string) int {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
		return -1
	}

	textIdx := index("text")
	if textIdx < 0 {
		return nil, fmt.Errorf("ingest: the text column is not present in the CSV file")
	}
	locationIdx := index("location")
	likesIdx := index("likes")
	keywordsIdx := index("keywords")

	field := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read row: %w", err)
		}

		text := CleanText(field(record, textIdx))
		if text == "" {
			continue
		}

		likes := 0
		if raw := strings.TrimSpace(field(record, likesIdx)); raw != "" {
			likes, err = strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("ingest: bad likes value %q: %w", raw, err)
			}
		}

		var keywords []string
		if raw := field(record, keywordsIdx); raw != "" {
			keywords = CleanKeywords(strings.Split(raw, ","))
		}

		rows = append(rows, Row{
			Text:     text,
			Location: strings.TrimSpace(field(record, locationIdx)),
			Likes:    likes,
			Keywords: keywords,
		})
	}

	return rows, nil
}

const keywordsSystemPrompt = `Extract 5-10 short keywords (in English) that best capture the meaning of
the tweet. Return them as a single comma-separated list, nothing else.`

// Ingestor turns parsed rows into stored records. The embedder is expected
// to be rate-limited; ingestion makes one embedding call per row and one
// optional keyword call per row.
type Ingestor struct {
	saver      RecordSaver
	embedder   embed.Embedder
	oracle     oracle.Provider // may be nil: rows keep their CSV keywords
	collection string
	batchSize  int
}

// NewIngestor wires an Ingestor. batchSize caps how many records go into a
// single save; zero means 10.
func NewIngestor(saver RecordSaver, embedder embed.Embedder, p oracle.Provider, collection string, batchSize int) *Ingestor {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Ingestor{
		saver:      saver,
		embedder:   embedder,
		oracle:     p,
		collection: collection,
		batchSize:  batchSize,
	}
}

// Summary reports what one ingestion run did.
type Summary struct {
	Loaded int // rows parsed from the CSV
	Saved  int // records newly inserted (duplicates are ignored by the store)
}

// Run ingests one CSV export end to end. Embedding failures abort the run;
// keyword extraction failures only cost that row its keywords.
func (in *Ingestor) Run(ctx context.Context, r io.Reader) (Summary, error) {
	rows, err := LoadCSV(r)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Loaded: len(rows)}
	logging.Info("ingestion started", "rows", len(rows), "collection", in.collection)

	var batch []trend.Record
	for _, row := range rows {
		vec, err := in.embedder.Embed(ctx, row.Text)
		if err != nil {
			return summary, fmt.Errorf("ingest: embed %q: %w", row.Text, err)
		}

		keywords := row.Keywords
		if len(keywords) == 0 && in.oracle != nil {
			keywords = in.extractKeywords(ctx, row.Text)
		}

		batch = append(batch, trend.Record{
			Text:       row.Text,
			Location:   row.Location,
			Popularity: row.Likes,
			Embedding:  vec,
			Keywords:   keywords,
		})

		if len(batch) >= in.batchSize {
			saved, err := in.saver.SaveRecords(in.collection, batch)
			if err != nil {
				return summary, fmt.Errorf("ingest: save batch: %w", err)
			}
			summary.Saved += saved
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		saved, err := in.saver.SaveRecords(in.collection, batch)
		if err != nil {
			return summary, fmt.Errorf("ingest: save batch: %w", err)
		}
		summary.Saved += saved
	}

	logging.Info("ingestion finished", "loaded", summary.Loaded, "saved", summary.Saved)
	return summary, nil
}

// extractKeywords asks the oracle for keywords. Best effort only.
func (in *Ingestor) extractKeywords(ctx context.Context, text string) []string {
	resp, err := in.oracle.Complete(ctx, oracle.Request{
		SystemPrompt: keywordsSystemPrompt,
		UserPrompt:   "Tweet: " + text,
		MaxTokens:    128,
	})
	if err != nil {
		logging.Warn("keyword extraction failed", "error", err)
		return nil
	}
	return CleanKeywords(strings.Split(resp.Content, ","))
}
