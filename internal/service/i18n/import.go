package i18n

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

// ImportStats summarizes one catalog import.
type ImportStats struct {
	Lookups      int
	Translations int
	Updated      int
	Skipped      int
}

type importRow struct {
	Kind      domain.Kind
	Name      string
	Category  string
	Language  string
	Value     string
	Tooltip   string
	IsDefault bool
}

// Import reads a CSV catalog (the Export layout) and upserts lookups and
// translations inside one transaction. Missing lookups are created; existing
// translations are overwritten when the text differs; the first translation
// of a parent becomes the default until a row claims the flag explicitly,
// which demotes whichever row held it before.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, domain.NewValidationError("header",
			fmt.Sprintf("expected %d columns, got %d", len(csvHeader), len(header)))
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, domain.NewValidationError("header",
				fmt.Sprintf("column %d must be %q, got %q", i, want, header[i]))
		}
	}

	stats := &ImportStats{}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		line := 1
		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}
			line++

			row, err := parseRow(record)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}

			switch row.Kind {
			case domain.KindAction:
				err = s.importAction(txCtx, row, stats)
			case domain.KindElement:
				err = s.importElement(txCtx, row, stats)
			case domain.KindMessage:
				err = s.importMessage(txCtx, row, stats)
			default:
				err = domain.NewValidationError("kind", fmt.Sprintf("unknown kind %q", row.Kind))
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "catalog imported",
		slog.Int("lookups", stats.Lookups),
		slog.Int("translations", stats.Translations),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func parseRow(record []string) (importRow, error) {
	row := importRow{
		Kind:     domain.Kind(strings.ToLower(strings.TrimSpace(record[0]))),
		Name:     strings.TrimSpace(record[1]),
		Category: strings.TrimSpace(record[2]),
		Language: domain.NormalizeIso3Language(record[3]),
		Value:    record[4],
		Tooltip:  record[5],
	}
	if row.Name == "" {
		return row, domain.NewValidationError("name", "must not be empty")
	}
	if !domain.ValidIso3Language(row.Language) {
		return row, domain.NewValidationError("language",
			fmt.Sprintf("%q is not a 3-letter ISO 639-2 code", record[3]))
	}
	if flag := strings.TrimSpace(record[6]); flag != "" {
		parsed, err := strconv.ParseBool(flag)
		if err != nil {
			return row, domain.NewValidationError("is_default", err.Error())
		}
		row.IsDefault = parsed
	}
	return row, nil
}

func (s *Service) importAction(ctx context.Context, row importRow, stats *ImportStats) error {
	lookup, err := s.actions.GetByName(ctx, row.Name)
	if errors.Is(err, domain.ErrNotFound) {
		lookup = domain.NewAction(row.Name)
		lookup.Category = row.Category
		if err := s.actions.Create(ctx, lookup); err != nil {
			return fmt.Errorf("create action: %w", err)
		}
		stats.Lookups++
	} else if err != nil {
		return err
	}

	trl, err := s.actionTrls.GetByParentAndLanguage(ctx, lookup.ID, row.Language)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		trl = &domain.ActionTrl{
			Translation: domain.NewTranslation(lookup.ID, row.Language),
			Value:       row.Value,
			Tooltip:     row.Tooltip,
		}
		trl.IsTranslated = true
		trl.IsDefault = row.IsDefault
		if trl.IsDefault {
			// A language earlier in the file may already hold the flag.
			if err := s.actionTrls.ClearDefault(ctx, lookup.ID); err != nil {
				return err
			}
		} else {
			if _, derr := s.actionTrls.GetDefault(ctx, lookup.ID); errors.Is(derr, domain.ErrNotFound) {
				trl.IsDefault = true
			} else if derr != nil {
				return derr
			}
		}
		if err := s.actionTrls.Create(ctx, trl); err != nil {
			return fmt.Errorf("create action_trl: %w", err)
		}
		stats.Translations++
		if err := s.versions.Bump(ctx, domain.KindAction, row.Language); err != nil {
			return err
		}
		return s.refreshActionTranslated(ctx, lookup.ID)
	case err != nil:
		return err
	}

	changed := trl.Value != row.Value || trl.Tooltip != row.Tooltip
	if row.IsDefault && !trl.IsDefault {
		if err := s.actionTrls.ClearDefault(ctx, lookup.ID); err != nil {
			return err
		}
		trl.IsDefault = true
		changed = true
	}
	if !changed {
		stats.Skipped++
		return nil
	}
	trl.Value = row.Value
	trl.Tooltip = row.Tooltip
	trl.IsTranslated = true
	if err := s.actionTrls.Update(ctx, trl); err != nil {
		return fmt.Errorf("update action_trl: %w", err)
	}
	stats.Updated++
	if err := s.versions.Bump(ctx, domain.KindAction, row.Language); err != nil {
		return err
	}
	return s.refreshActionTranslated(ctx, lookup.ID)
}

func (s *Service) importElement(ctx context.Context, row importRow, stats *ImportStats) error {
	lookup, err := s.elements.GetByName(ctx, row.Name)
	if errors.Is(err, domain.ErrNotFound) {
		lookup = domain.NewElement(row.Name)
		lookup.Category = row.Category
		if err := s.elements.Create(ctx, lookup); err != nil {
			return fmt.Errorf("create element: %w", err)
		}
		stats.Lookups++
	} else if err != nil {
		return err
	}

	trl, err := s.elementTrls.GetByParentAndLanguage(ctx, lookup.ID, row.Language)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		trl = &domain.ElementTrl{
			Translation: domain.NewTranslation(lookup.ID, row.Language),
			Value:       row.Value,
			Tooltip:     row.Tooltip,
		}
		trl.IsTranslated = true
		trl.IsDefault = row.IsDefault
		if trl.IsDefault {
			if err := s.elementTrls.ClearDefault(ctx, lookup.ID); err != nil {
				return err
			}
		} else {
			if _, derr := s.elementTrls.GetDefault(ctx, lookup.ID); errors.Is(derr, domain.ErrNotFound) {
				trl.IsDefault = true
			} else if derr != nil {
				return derr
			}
		}
		if err := s.elementTrls.Create(ctx, trl); err != nil {
			return fmt.Errorf("create element_trl: %w", err)
		}
		stats.Translations++
		if err := s.versions.Bump(ctx, domain.KindElement, row.Language); err != nil {
			return err
		}
		return s.refreshElementTranslated(ctx, lookup.ID)
	case err != nil:
		return err
	}

	changed := trl.Value != row.Value || trl.Tooltip != row.Tooltip
	if row.IsDefault && !trl.IsDefault {
		if err := s.elementTrls.ClearDefault(ctx, lookup.ID); err != nil {
			return err
		}
		trl.IsDefault = true
		changed = true
	}
	if !changed {
		stats.Skipped++
		return nil
	}
	trl.Value = row.Value
	trl.Tooltip = row.Tooltip
	trl.IsTranslated = true
	if err := s.elementTrls.Update(ctx, trl); err != nil {
		return fmt.Errorf("update element_trl: %w", err)
	}
	stats.Updated++
	if err := s.versions.Bump(ctx, domain.KindElement, row.Language); err != nil {
		return err
	}
	return s.refreshElementTranslated(ctx, lookup.ID)
}

func (s *Service) importMessage(ctx context.Context, row importRow, stats *ImportStats) error {
	lookup, err := s.messages.GetByName(ctx, row.Name)
	if errors.Is(err, domain.ErrNotFound) {
		lookup = domain.NewMessage(row.Name)
		lookup.Category = row.Category
		if err := s.messages.Create(ctx, lookup); err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		stats.Lookups++
	} else if err != nil {
		return err
	}

	trl, err := s.messageTrls.GetByParentAndLanguage(ctx, lookup.ID, row.Language)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		trl = &domain.MessageTrl{
			Translation: domain.NewTranslation(lookup.ID, row.Language),
			Value:       row.Value,
		}
		trl.IsTranslated = true
		trl.IsDefault = row.IsDefault
		if trl.IsDefault {
			if err := s.messageTrls.ClearDefault(ctx, lookup.ID); err != nil {
				return err
			}
		} else {
			if _, derr := s.messageTrls.GetDefault(ctx, lookup.ID); errors.Is(derr, domain.ErrNotFound) {
				trl.IsDefault = true
			} else if derr != nil {
				return derr
			}
		}
		if err := s.messageTrls.Create(ctx, trl); err != nil {
			return fmt.Errorf("create message_trl: %w", err)
		}
		stats.Translations++
		if err := s.versions.Bump(ctx, domain.KindMessage, row.Language); err != nil {
			return err
		}
		return s.refreshMessageTranslated(ctx, lookup.ID)
	case err != nil:
		return err
	}

	changed := trl.Value != row.Value
	if row.IsDefault && !trl.IsDefault {
		if err := s.messageTrls.ClearDefault(ctx, lookup.ID); err != nil {
			return err
		}
		trl.IsDefault = true
		changed = true
	}
	if !changed {
		stats.Skipped++
		return nil
	}
	trl.Value = row.Value
	trl.IsTranslated = true
	if err := s.messageTrls.Update(ctx, trl); err != nil {
		return fmt.Errorf("update message_trl: %w", err)
	}
	stats.Updated++
	if err := s.versions.Bump(ctx, domain.KindMessage, row.Language); err != nil {
		return err
	}
	return s.refreshMessageTranslated(ctx, lookup.ID)
}

// The lookup's is_translated flag is the conjunction of its active
// translations' flags, recomputed after every translation write.

func (s *Service) refreshActionTranslated(ctx context.Context, parentID uuid.UUID) error {
	trls, err := s.actionTrls.ListByParent(ctx, parentID)
	if err != nil {
		return err
	}
	translated := false
	for _, trl := range trls {
		if !trl.IsActive {
			continue
		}
		if !trl.IsTranslated {
			translated = false
			break
		}
		translated = true
	}
	return s.actions.SetTranslated(ctx, parentID, translated)
}

func (s *Service) refreshElementTranslated(ctx context.Context, parentID uuid.UUID) error {
	trls, err := s.elementTrls.ListByParent(ctx, parentID)
	if err != nil {
		return err
	}
	translated := false
	for _, trl := range trls {
		if !trl.IsActive {
			continue
		}
		if !trl.IsTranslated {
			translated = false
			break
		}
		translated = true
	}
	return s.elements.SetTranslated(ctx, parentID, translated)
}

func (s *Service) refreshMessageTranslated(ctx context.Context, parentID uuid.UUID) error {
	trls, err := s.messageTrls.ListByParent(ctx, parentID)
	if err != nil {
		return err
	}
	translated := false
	for _, trl := range trls {
		if !trl.IsActive {
			continue
		}
		if !trl.IsTranslated {
			translated = false
			break
		}
		translated = true
	}
	return s.messages.SetTranslated(ctx, parentID, translated)
}
