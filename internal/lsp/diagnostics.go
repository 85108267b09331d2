package lsp

import (
	"bazelrc-lsp/internal/diag"
)

const diagnosticSource = "bazelrc"

func (s *Server) publish(snap *snapshot) error {
	list := make([]lspDiagnostic, 0, len(snap.diags))
	for i := range snap.diags {
		list = append(list, snap.toLSP(&snap.diags[i]))
	}
	version := snap.version
	return s.sendPublish(snap.uri, &version, list)
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	case diag.SevInfo:
		return 3
	default:
		return 4
	}
}

func (snap *snapshot) toLSP(d *diag.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    snap.rangeFor(d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   diagnosticSource,
		Message:  d.Message,
	}
	for _, tag := range d.Tags {
		// the protocol numbers unnecessary and deprecated the same way
		out.Tags = append(out.Tags, int(tag))
	}
	if snap.path != "" {
		for _, n := range d.Notes {
			out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: snap.uri, Range: snap.rangeFor(n.Span)},
				Message:  n.Msg,
			})
		}
	}
	return out
}
