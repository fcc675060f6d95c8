package build

import (
	"context"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// Demolish removes an installed building row. The province's building
// manpower commitment drops by the template's maintenance manpower per
// count; construction resources are not refunded.
func (s *Service) Demolish(ctx context.Context, nationID string, installedID int64) error {
	return s.uow.Do(ctx, func(r *common.Repos) error {
		installed, err := r.Installed.FindByID(ctx, installedID)
		if err != nil {
			return err
		}
		province, err := r.Provinces.FindByID(ctx, installed.ProvinceID)
		if err != nil {
			return err
		}
		if !province.ControlledBy(nationID) {
			return shared.NewUnauthorizedError("building is in a province you do not control")
		}
		template, err := r.BuildingTemplates.FindByID(ctx, installed.BuildingID)
		if err != nil {
			return err
		}

		if err := r.Installed.Delete(ctx, installedID); err != nil {
			return err
		}
		freed := template.MaintenanceManpower * installed.Count
		if freed > 0 {
			manpower := province.ManpowerUsed - freed
			if manpower < 0 {
				manpower = 0
			}
			if err := r.Provinces.SetManpowerUsed(ctx, province.ID, manpower); err != nil {
				return err
			}
		}
		return nil
	})
}
