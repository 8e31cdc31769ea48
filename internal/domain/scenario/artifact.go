package scenario

import (
	"fmt"
	"path/filepath"
	"time"
)

// ArtifactKind distinguishes screenshots from markup dumps.
type ArtifactKind string

const (
	ArtifactScreenshot ArtifactKind = "png"
	ArtifactDump       ArtifactKind = "html"
)

// ArtifactName builds the deterministic file name
// {backend}-{timestamp}-{label}.{ext} for a diagnostic artifact.
func ArtifactName(backend Backend, at time.Time, label string, kind ArtifactKind) string {
	if label == "" {
		label = string(kind)
	}
	return fmt.Sprintf("%s-%d-%s.%s", backend, at.UnixMilli(), label, kind)
}

// ArtifactPath joins ArtifactName onto dir.
func ArtifactPath(dir string, backend Backend, at time.Time, label string, kind ArtifactKind) string {
	return filepath.Join(dir, ArtifactName(backend, at, label, kind))
}
