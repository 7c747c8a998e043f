package orchestrator

import (
	"time"

	"autonameow/internal/analyzers/filename"
	"autonameow/internal/config"
	"autonameow/internal/extractors/exiftool"
	"autonameow/internal/extractors/filesystem"
	"autonameow/internal/extractors/filetags"
	"autonameow/internal/extractors/pdftotext"
	"autonameow/internal/extractors/plaintext"
	"autonameow/internal/mimemap"
	"autonameow/internal/producer"
	"autonameow/internal/services"
)

// Mapper returns the builtin MIME mapper extended with the preferred
// extensions of cfg.
func Mapper(cfg *config.Config) *mimemap.Mapper {
	if cfg == nil || len(cfg.MIME.PreferredExtensions) == 0 {
		return mimemap.Builtin()
	}
	m := mimemap.Builtin().Clone()
	for mime, ext := range cfg.MIME.PreferredExtensions {
		m.AddPreferredExtension(mime, ext)
	}
	return m
}

// Producers returns the extractors and analyzers enabled by cfg, in the
// order they are consulted.
func Producers(cfg *config.Config, mapper *mimemap.Mapper) ([]producer.Producer, error) {
	if mapper == nil {
		mapper = Mapper(cfg)
	}
	out := []producer.Producer{
		filesystem.New(),
		filetags.New(filetags.Options{
			FilenameTagSeparator: cfg.Filetags.FilenameTagSeparator,
			BetweenTagSeparator:  cfg.Filetags.BetweenTagSeparator,
			CompoundSuffixes:     cfg.Filesystem.CompoundSuffixes,
		}),
		plaintext.New(plaintext.Options{}),
	}
	if cfg.Exiftool.Enabled {
		out = append(out, exiftool.New(exiftool.Options{
			Binary:  cfg.ExiftoolBinary(),
			Timeout: time.Duration(cfg.Exiftool.TimeoutSeconds) * time.Second,
		}))
	}
	if cfg.Pdftotext.Enabled {
		out = append(out, pdftotext.New(pdftotext.Options{
			Binary:  cfg.PdftotextBinary(),
			Timeout: time.Duration(cfg.Pdftotext.TimeoutSeconds) * time.Second,
		}))
	}
	analyzer, err := filename.New(filename.Options{
		Mapper:              mapper,
		PublisherCandidates: cfg.NameTemplateFields.Publisher.Candidates,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "orchestrator", "filename analyzer", "invalid publisher pattern", err)
	}
	return append(out, analyzer), nil
}
