package lsp

import (
	"encoding/json"
	"fmt"

	"bazelrc-lsp/internal/format"
)

// lspSettings is the client configuration object. Every field is optional;
// unset fields keep their current value.
type lspSettings struct {
	Bazelrc struct {
		FormatLines     *string `json:"formatLines"`
		NormalizeValues *bool   `json:"normalizeValues"`
		BazelVersion    *string `json:"bazelVersion"`
		MaxDiagnostics  *int    `json:"maxDiagnostics"`
	} `json:"bazelrc"`
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	if err := s.applySettings(params.Settings); err != nil {
		s.log.Error("invalid settings", "err", err)
		s.showMessage(messageTypeError, fmt.Sprintf("Invalid settings: %v", err))
		return nil
	}
	return s.reanalyzeAll()
}

// applySettings merges raw into the current settings. Nothing changes when
// any field is invalid.
func (s *Server) applySettings(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var in lspSettings
	if err := json.Unmarshal(raw, &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.settings
	b := in.Bazelrc
	if b.FormatLines != nil {
		flow, err := format.ParseLineFlow(*b.FormatLines)
		if err != nil {
			return fmt.Errorf("formatLines: %w", err)
		}
		next.Format.LineFlow = flow
	}
	if b.NormalizeValues != nil {
		next.Format.NormalizeValues = *b.NormalizeValues
	}
	if b.BazelVersion != nil {
		next.BazelVersion = *b.BazelVersion
	}
	if b.MaxDiagnostics != nil {
		if *b.MaxDiagnostics < 0 {
			return fmt.Errorf("maxDiagnostics must not be negative")
		}
		next.MaxDiagnostics = *b.MaxDiagnostics
	}
	if next != s.settings {
		s.settings = next
		s.settingsGen++
	}
	return nil
}

// reanalyzeAll refreshes every open document after a settings change.
func (s *Server) reanalyzeAll() error {
	var snaps []*snapshot
	s.docs.Range(func(_, v any) bool {
		snaps = append(snaps, v.(*snapshot))
		return true
	})
	s.mu.Lock()
	gen := s.settingsGen
	s.mu.Unlock()
	for _, snap := range snaps {
		if snap.settingsGen == gen {
			continue
		}
		if err := s.update(snap.uri, snap.version, string(snap.file.Content)); err != nil {
			return err
		}
	}
	return nil
}
