package i18n

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column layout shared by Export and Import.
var csvHeader = []string{"kind", "name", "category", "language", "value", "tooltip", "is_default"}

// Export writes the active catalog of all three families as CSV: one row per
// translation, message rows with an empty tooltip column.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if err := s.exportActions(ctx, cw); err != nil {
		return err
	}
	if err := s.exportElements(ctx, cw); err != nil {
		return err
	}
	if err := s.exportMessages(ctx, cw); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func (s *Service) exportActions(ctx context.Context, cw *csv.Writer) error {
	lookups, err := s.actions.List(ctx, false)
	if err != nil {
		return fmt.Errorf("list actions: %w", err)
	}
	for _, lookup := range lookups {
		trls, err := s.actionTrls.ListByParent(ctx, lookup.ID)
		if err != nil {
			return fmt.Errorf("list action translations: %w", err)
		}
		for _, trl := range trls {
			if !trl.IsActive {
				continue
			}
			err := cw.Write([]string{
				"action", lookup.Name, lookup.Category, trl.Iso3Language,
				trl.Value, trl.Tooltip, strconv.FormatBool(trl.IsDefault),
			})
			if err != nil {
				return fmt.Errorf("write action row: %w", err)
			}
		}
	}
	return nil
}

func (s *Service) exportElements(ctx context.Context, cw *csv.Writer) error {
	lookups, err := s.elements.List(ctx, false)
	if err != nil {
		return fmt.Errorf("list elements: %w", err)
	}
	for _, lookup := range lookups {
		trls, err := s.elementTrls.ListByParent(ctx, lookup.ID)
		if err != nil {
			return fmt.Errorf("list element translations: %w", err)
		}
		for _, trl := range trls {
			if !trl.IsActive {
				continue
			}
			err := cw.Write([]string{
				"element", lookup.Name, lookup.Category, trl.Iso3Language,
				trl.Value, trl.Tooltip, strconv.FormatBool(trl.IsDefault),
			})
			if err != nil {
				return fmt.Errorf("write element row: %w", err)
			}
		}
	}
	return nil
}

func (s *Service) exportMessages(ctx context.Context, cw *csv.Writer) error {
	lookups, err := s.messages.List(ctx, false)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}
	for _, lookup := range lookups {
		trls, err := s.messageTrls.ListByParent(ctx, lookup.ID)
		if err != nil {
			return fmt.Errorf("list message translations: %w", err)
		}
		for _, trl := range trls {
			if !trl.IsActive {
				continue
			}
			err := cw.Write([]string{
				"message", lookup.Name, lookup.Category, trl.Iso3Language,
				trl.Value, "", strconv.FormatBool(trl.IsDefault),
			})
			if err != nil {
				return fmt.Errorf("write message row: %w", err)
			}
		}
	}
	return nil
}
