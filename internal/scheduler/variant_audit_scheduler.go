package scheduler

import (
	"strings"

	"github.com/ikkim/udonggeum-variants/internal/app/service"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Auditor runs one integrity pass over the variant store.
type Auditor interface {
	AuditIntegrity() (*service.AuditReport, error)
}

// VariantAuditScheduler 변형 조합 정합성 점검 스케줄러
type VariantAuditScheduler struct {
	cron    *cron.Cron
	auditor Auditor
	spec    string
	entryID cron.EntryID
}

// NewVariantAuditScheduler 점검 스케줄러 생성. spec 이 비어 있거나 "off" 이면 등록하지 않음
func NewVariantAuditScheduler(auditor Auditor, spec string) *VariantAuditScheduler {
	return &VariantAuditScheduler{
		cron:    cron.New(),
		auditor: auditor,
		spec:    strings.TrimSpace(spec),
	}
}

func (s *VariantAuditScheduler) enabled() bool {
	return s.spec != "" && !strings.EqualFold(s.spec, "off")
}

// Start 스케줄러 시작
func (s *VariantAuditScheduler) Start() error {
	if !s.enabled() {
		logger.Info("Variant audit scheduler disabled")
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, func() { s.RunOnce() })
	if err != nil {
		logger.Error("Failed to add cron job for variant audit", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}
	s.entryID = id

	s.cron.Start()
	logger.Info("Variant audit scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce 점검 1회 실행. 위반 항목은 서비스가 개별로 error 로그를 남긴다
func (s *VariantAuditScheduler) RunOnce() *service.AuditReport {
	logger.Info("Starting scheduled variant audit")

	report, err := s.auditor.AuditIntegrity()
	if err != nil {
		logger.Error("Variant audit failed", err)
		return nil
	}

	if len(report.Findings) > 0 {
		logger.Warn("Variant audit found integrity violations", map[string]interface{}{
			"findings": len(report.Findings),
			"checked":  report.CheckedVariants,
		})
	}
	return report
}

// Stop 스케줄러 중지
func (s *VariantAuditScheduler) Stop() {
	if !s.enabled() {
		return
	}
	logger.Info("Stopping variant audit scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Variant audit scheduler stopped")
}
