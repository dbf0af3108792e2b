package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"chitfund-backend/internal/models"
)

// CommitteeFile is the YAML document accepted by the committee importer
type CommitteeFile struct {
	Committees []CommitteeSeed `yaml:"committees"`
}

// CommitteeSeed describes one committee to create
type CommitteeSeed struct {
	Name                       string                  `yaml:"name"`
	MonthlyAmount              float64                 `yaml:"monthlyAmount"`
	Duration                   int                     `yaml:"duration"`
	StartDate                  time.Time               `yaml:"startDate"`
	CommitteeHeadRef           string                  `yaml:"committeeHeadRef"`
	GovernmentDeductionPercent float64                 `yaml:"governmentDeductionPercent"`
	Members                    []MemberSeed            `yaml:"members"`
	LateFeeSettings            *models.LateFeeSettings `yaml:"lateFeeSettings"`
}

// MemberSeed describes one committee member
type MemberSeed struct {
	Name    string `yaml:"name"`
	Mobile  string `yaml:"mobile"`
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
}

// LoadCommitteeFile reads committee seeds from a YAML file
func LoadCommitteeFile(path string) ([]CommitteeSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCommittees(data)
}

// ParseCommittees decodes committee seeds from YAML
func ParseCommittees(data []byte) ([]CommitteeSeed, error) {
	var file CommitteeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid committee file: %w", err)
	}
	return file.Committees, nil
}

// Creation converts the seed into a committee creation request
func (s CommitteeSeed) Creation() *models.CommitteeCreation {
	members := make([]models.Member, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, models.Member{
			Name:    m.Name,
			Mobile:  m.Mobile,
			Email:   m.Email,
			Address: m.Address,
		})
	}

	return &models.CommitteeCreation{
		Name:                       s.Name,
		MemberList:                 members,
		MonthlyAmount:              s.MonthlyAmount,
		Duration:                   s.Duration,
		StartDate:                  s.StartDate,
		CommitteeHeadRef:           s.CommitteeHeadRef,
		GovernmentDeductionPercent: s.GovernmentDeductionPercent,
	}
}

// ImportCommittees creates every seeded committee and stores its late fee settings.
// It stops at the first committee that fails and returns the ones already created.
func (s *LedgerService) ImportCommittees(ctx context.Context, seeds []CommitteeSeed) ([]*models.Committee, error) {
	created := make([]*models.Committee, 0, len(seeds))
	for i, seed := range seeds {
		committee, err := s.CreateCommittee(ctx, seed.Creation())
		if err != nil {
			return created, fmt.Errorf("committee %d (%s): %w", i+1, seed.Name, err)
		}

		if seed.LateFeeSettings != nil {
			if err := s.SetLateFeeSettings(ctx, committee.ID, *seed.LateFeeSettings); err != nil {
				return created, fmt.Errorf("committee %d (%s): %w", i+1, seed.Name, err)
			}
		}
		created = append(created, committee)
	}
	return created, nil
}
