package service

import (
	"sort"
	"time"

	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/ikkim/udonggeum-variants/pkg/variant"
)

type AuditFindingKind string

const (
	FindingDuplicateCombination AuditFindingKind = "duplicate_combination"
	FindingStaleCombinationKey  AuditFindingKind = "stale_combination_key"
	FindingMultiValueAttribute  AuditFindingKind = "multiple_values_per_attribute"
)

type AuditFinding struct {
	Kind       AuditFindingKind `json:"kind"`
	ProductID  uint             `json:"product_id"`
	VariantIDs []uint           `json:"variant_ids"`
	Detail     string           `json:"detail"`
}

type AuditReport struct {
	CheckedVariants int            `json:"checked_variants"`
	Findings        []AuditFinding `json:"findings"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
}

// AuditIntegrity recomputes every variant's combination from its
// assignments and reports anything the write path should have prevented.
func (s *variantService) AuditIntegrity() (*AuditReport, error) {
	report := &AuditReport{StartedAt: time.Now()}

	variants, err := s.variantRepo.FindAll()
	if err != nil {
		return nil, err
	}
	report.CheckedVariants = len(variants)

	type productKey struct {
		productID uint
		key       string
	}
	byCombination := make(map[productKey][]uint)

	for _, v := range variants {
		key := variant.Key(v.ValueIDs())

		stored := v.CombinationKey
		if stored != key {
			report.Findings = append(report.Findings, AuditFinding{
				Kind:       FindingStaleCombinationKey,
				ProductID:  v.ProductID,
				VariantIDs: []uint{v.ID},
				Detail:     "stored " + stored + ", assignments " + key,
			})
		}

		attributeIDs := make([]uint, 0, len(v.Assignments))
		for _, a := range v.Assignments {
			attributeIDs = append(attributeIDs, a.AttributeID)
		}
		if dups := variant.DuplicateAttributes(attributeIDs); len(dups) > 0 {
			report.Findings = append(report.Findings, AuditFinding{
				Kind:       FindingMultiValueAttribute,
				ProductID:  v.ProductID,
				VariantIDs: []uint{v.ID},
				Detail:     "attribute " + variant.Key(dups) + " assigned more than once",
			})
		}

		pk := productKey{productID: v.ProductID, key: key}
		byCombination[pk] = append(byCombination[pk], v.ID)
	}

	for pk, ids := range byCombination {
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		report.Findings = append(report.Findings, AuditFinding{
			Kind:       FindingDuplicateCombination,
			ProductID:  pk.productID,
			VariantIDs: ids,
			Detail:     "combination " + pk.key,
		})
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		return report.Findings[i].ProductID < report.Findings[j].ProductID
	})

	for _, f := range report.Findings {
		logger.Error("Variant integrity violation", nil, map[string]interface{}{
			"kind":        f.Kind,
			"product_id":  f.ProductID,
			"variant_ids": f.VariantIDs,
			"detail":      f.Detail,
		})
	}

	report.FinishedAt = time.Now()
	logger.Info("Variant integrity audit finished", map[string]interface{}{
		"checked":  report.CheckedVariants,
		"findings": len(report.Findings),
		"duration": report.FinishedAt.Sub(report.StartedAt).String(),
	})
	return report, nil
}
