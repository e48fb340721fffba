package mealplan

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/render"
	"github.com/saadjs/mealplan-cli/internal/service"
)

var nowFunc = time.Now

// withStore runs fn against the shell's session, or opens a fresh one for the
// duration of the call. A failed write to the slot fails the command.
func withStore(cmd *cobra.Command, fn func(*session) error) error {
	s := activeSession
	if s == nil {
		var err error
		s, err = openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
	}
	writes, before := s.boundary.Writes(), s.boundary.Err()
	err := fn(s)
	writeErr := s.boundary.Err()
	failed := writeErr != nil && writeErr != before
	if err == nil && failed {
		err = writeErr
	}
	s.record(cmd, writes, failed, err)
	return err
}

// record updates the session's metrics and refreshes the textfile when one
// is configured.
func (s *session) record(cmd *cobra.Command, writesBefore int, writeFailed bool, err error) {
	m := s.metrics
	driver := s.cfg.Storage.Driver
	if n := s.boundary.Writes() - writesBefore; n > 0 {
		m.SlotWrites.WithLabelValues(driver, "ok").Add(float64(n))
	}
	if writeFailed {
		m.SlotWrites.WithLabelValues(driver, "error").Inc()
	}
	m.ObserveCommand(cmd.CommandPath(), err)
	m.Plans.Set(float64(len(s.store.DayPlans())))
	undo, redo := s.store.HistoryDepth()
	m.HistoryDepth.WithLabelValues("undo").Set(float64(undo))
	m.HistoryDepth.WithLabelValues("redo").Set(float64(redo))
	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			s.log.Warn("%v", err)
		}
	}
}

func (s *session) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), s.store.Theme())
}

func today() string {
	return nowFunc().Format(model.DateLayout)
}

// resolveDate defaults an empty --date to today.
func resolveDate(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return today(), nil
	}
	return service.ParseDate(value)
}

// optionalFloat returns a pointer to v only when the flag was passed.
func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		if !cmd.Flags().Changed(n) {
			return fmt.Errorf("--%s is required", n)
		}
	}
	return nil
}
