package trails

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/trailnet/metrics"
)

// Format is an interchange encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file suffix.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", configErr("unsupported file suffix %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// Encode writes v in the given format with two-space indentation.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshaling yaml: %w", err)
		}
		return enc.Close()
	}
	return configErr("unsupported format %q", f)
}

// Decode reads a value of type T in the given format. An empty or null payload
// yields a nil result and a ConfigError.
func Decode[T any](r io.Reader, f Format) (*T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, configErr("empty %s payload", f)
	}

	var v *T
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		return nil, configErr("unsupported format %q", f)
	}
	if v == nil {
		return nil, configErr("absent %s payload", f)
	}
	return v, nil
}

// ReadFile decodes a value of type T from path, choosing the format by suffix.
func ReadFile[T any](path string) (*T, Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, f, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	v, err := Decode[T](file, f)
	if err != nil {
		return nil, f, fmt.Errorf("decoding %s: %w", path, err)
	}
	return v, f, nil
}

// WriteFile encodes v to path, choosing the format by suffix.
func WriteFile(path string, v any) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, v, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Save writes the store's interchange document to path (.json, .yaml or .yml).
func (s *Store) Save(path string) error {
	if err := WriteFile(path, Serialize(s)); err != nil {
		return fmt.Errorf("saving trails: %w", err)
	}
	s.logger.Info("trails saved", "path", path, "envs", s.dims.Envs)
	return nil
}

// Load replaces the store's contents with the document at path. On any error
// the store keeps its previous state.
func (s *Store) Load(path string) error {
	doc, f, err := ReadFile[Document](path)
	if err == nil {
		err = Deserialize(s, doc)
	}

	format := string(f)
	if format == "" {
		format = "unknown"
	}
	if err != nil {
		metrics.LoadsTotal.WithLabelValues(format, metrics.ResultError).Inc()
		return fmt.Errorf("loading trails: %w", err)
	}
	metrics.LoadsTotal.WithLabelValues(format, metrics.ResultOK).Inc()
	s.logger.Info("trails loaded", "path", path, "format", format, "scale", s.Scale())
	return nil
}
