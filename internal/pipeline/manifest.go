package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	cleaningdomain "salesdash/internal/cleaning/domain"
	"salesdash/internal/config"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// StageTiming durée d'un stage
type StageTiming struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
}

// Manifest compte rendu d'une exécution complète, écrit à côté des artefacts
type Manifest struct {
	RunID      string                 `json:"run_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	AsOf       string                 `json:"as_of"`
	Config     config.Config          `json:"config"`
	Stages     []StageTiming          `json:"stages"`
	Cleaning   *cleaningdomain.Report `json:"cleaning,omitempty"`
	Artifacts  []string               `json:"artifacts"`
}

// NewManifest démarre un manifeste avec un identifiant d'exécution unique
func NewManifest(cfg config.Config, asOf string, startedAt time.Time) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: startedAt.UTC(),
		AsOf:      asOf,
		Config:    cfg,
		Stages:    make([]StageTiming, 0, 5),
		Artifacts: make([]string, 0, 16),
	}
}

// AddStage enregistre la durée d'un stage terminé
func (m *Manifest) AddStage(name string, d time.Duration) {
	m.Stages = append(m.Stages, StageTiming{
		Name:       name,
		DurationMS: float64(d.Microseconds()) / 1000,
	})
}

// AddArtifacts enregistre des fichiers écrits
func (m *Manifest) AddArtifacts(paths ...string) {
	m.Artifacts = append(m.Artifacts, paths...)
}

// Write écrit le manifeste JSON indenté (écriture atomique)
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return sharedinfra.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}
