package trainer

import (
	"bufio"
	"encoding/json"
	"os"
)

// MetricsWriter appends one JSON line per episode, suitable for offline
// analysis of a training run.
type MetricsWriter struct {
	file *os.File
	w    *bufio.Writer
}

func NewMetricsWriter(path string) (*MetricsWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &MetricsWriter{
		file: file,
		w:    bufio.NewWriter(file),
	}, nil
}

func (m *MetricsWriter) Write(report EpisodeReport) error {
	data, err := json.Marshal(&report)
	if err != nil {
		return err
	}

	if _, err := m.w.Write(data); err != nil {
		return err
	}
	return m.w.WriteByte('\n')
}

func (m *MetricsWriter) Close() error {
	if err := m.w.Flush(); err != nil {
		m.file.Close()
		return err
	}
	return m.file.Close()
}
