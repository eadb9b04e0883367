package event

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
)

type EventLogData struct {
	Time    int64  `json:"time"`
	Service string `json:"service"`
	Action  string `json:"action"`
	Data    string `json:"data"`
}

// Journal appends published events to w, one JSON object per line.
type Journal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w}
}

func (j *Journal) Write(data EventLogData) error {
	line, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "event.Journal.Marshal")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.w.Write(append(line, '\n')); err != nil {
		return errors.Wrap(err, "event.Journal.Write")
	}
	return nil
}

// ReadJournal calls fn for every entry in r, stopping at the first error.
func ReadJournal(r io.Reader, fn func(EventLogData) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		data := EventLogData{}
		if err := json.Unmarshal(scanner.Bytes(), &data); err != nil {
			return errors.Wrap(err, "event.ReadJournal.Unmarshal")
		}
		if err := fn(data); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "event.ReadJournal.Scan")
}
