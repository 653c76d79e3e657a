package retrieve

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// corpusEntry is one JSONL record of the local evidence corpus. The shape
// follows HotpotQA-style dumps: a title plus context paragraphs, where each
// context element is either a plain string or a [title, [sentences...]] pair.
type corpusEntry struct {
	Title        string            `json:"title,omitempty"`
	ArticleTitle string            `json:"article_title,omitempty"`
	ID           string            `json:"id,omitempty"`
	Context      []json.RawMessage `json:"context,omitempty"`
	Paragraphs   []struct {
		Context string `json:"context"`
	} `json:"paragraphs,omitempty"`
}

// corpusDoc is one loaded paragraph ready for similarity search.
type corpusDoc struct {
	Source string
	Text   string
}

// loadCorpus reads the JSONL corpus file. Missing files and malformed lines
// are tolerated: the result is simply whatever parsed.
func loadCorpus(path string) []corpusDoc {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = file.Close() }()

	var docs []corpusDoc
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry corpusEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		docs = append(docs, entry.docs()...)
	}
	return docs
}

// docs flattens one corpus entry into searchable paragraphs.
func (e corpusEntry) docs() []corpusDoc {
	title := e.Title
	if title == "" {
		title = e.ArticleTitle
	}
	if title == "" {
		title = e.ID
	}
	if title == "" {
		title = "doc"
	}

	var out []corpusDoc
	for _, raw := range e.Context {
		if text := contextText(raw); text != "" {
			out = append(out, corpusDoc{Source: title, Text: text})
		}
	}
	for _, p := range e.Paragraphs {
		if p.Context != "" {
			out = append(out, corpusDoc{Source: title, Text: p.Context})
		}
	}
	return out
}

// contextText decodes one context element: a plain string, or the HotpotQA
// [title, [sentences...]] pair form, joined into one paragraph.
func contextText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
		return ""
	}
	var sentences []string
	if err := json.Unmarshal(pair[1], &sentences); err != nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(sentences, " "))
}

// AppendCorpus appends documents to the JSONL corpus file, creating it when
// absent. Used by corpus ingestion.
func AppendCorpus(path string, title string, paragraphs []string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = file.Close() }()

	entry := struct {
		Title   string   `json:"title"`
		Context []string `json:"context"`
	}{Title: title, Context: paragraphs}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal corpus entry: %w", err)
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write corpus entry: %w", err)
	}
	return nil
}
