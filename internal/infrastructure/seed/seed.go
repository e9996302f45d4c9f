// Package seed loads people and postings from a YAML file. Students and
// staff are written straight to the store; representatives and postings go
// through the command handlers so every placement rule still applies.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// FILE FORMAT
// ══════════════════════════════════════════════════════════════════════════════

// File is the root of a seed document.
type File struct {
	Staff       []StaffRecord      `yaml:"staff"`
	Students    []StudentRecord    `yaml:"students"`
	Reps        []RepRecord        `yaml:"reps"`
	Internships []InternshipRecord `yaml:"internships"`
}

// StaffRecord describes a career center staff member.
type StaffRecord struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
	Email      string `yaml:"email"`
}

// StudentRecord describes a student.
type StudentRecord struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Year  int    `yaml:"year"`
	Major string `yaml:"major"`
	Email string `yaml:"email"`
}

// RepRecord describes a company representative. Approved reps are reviewed
// by the first staff member of the file.
type RepRecord struct {
	Name       string `yaml:"name"`
	Company    string `yaml:"company"`
	Department string `yaml:"department"`
	Position   string `yaml:"position"`
	Email      string `yaml:"email"`
	Approved   bool   `yaml:"approved"`
}

// InternshipRecord describes a posting created by the rep with RepEmail.
// Status is "pending" (default), "approved" or "rejected".
type InternshipRecord struct {
	RepEmail       string `yaml:"rep"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Level          string `yaml:"level"`
	PreferredMajor string `yaml:"preferred_major"`
	OpenDate       string `yaml:"open_date"`
	CloseDate      string `yaml:"close_date"`
	MaxSlots       int    `yaml:"max_slots"`
	Status         string `yaml:"status"`
	Visible        bool   `yaml:"visible"`
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the seed file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// ══════════════════════════════════════════════════════════════════════════════
// SEEDER
// ══════════════════════════════════════════════════════════════════════════════

// Report counts what Apply created and skipped.
type Report struct {
	Staff       int
	Students    int
	Reps        int
	Internships int
	Skipped     int
}

// Seeder applies seed files to a store.
type Seeder struct {
	store    placement.UnitOfWorkFactory
	handlers *command.Handlers
	log      *logger.Logger
}

// NewSeeder creates a seeder. handlers must be built on the same store.
func NewSeeder(store placement.UnitOfWorkFactory, handlers *command.Handlers, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{store: store, handlers: handlers, log: log.With(logger.Component("seed"))}
}

// Apply loads every record. Records that already exist are skipped, so a
// file can be applied more than once.
func (s *Seeder) Apply(ctx context.Context, f *File) (Report, error) {
	var report Report

	if err := s.people(ctx, f, &report); err != nil {
		return report, err
	}

	reviewer := ""
	if len(f.Staff) > 0 {
		reviewer = strings.TrimSpace(f.Staff[0].ID)
	}

	for _, r := range f.Reps {
		if err := s.rep(ctx, r, reviewer, &report); err != nil {
			return report, fmt.Errorf("seed: rep %s: %w", r.Email, err)
		}
	}
	for _, rec := range f.Internships {
		if err := s.internship(ctx, rec, reviewer, &report); err != nil {
			return report, fmt.Errorf("seed: internship %q: %w", rec.Title, err)
		}
	}

	s.log.Info("seed applied",
		logger.Int("staff", report.Staff),
		logger.Int("students", report.Students),
		logger.Int("reps", report.Reps),
		logger.Int("internships", report.Internships),
		logger.Int("skipped", report.Skipped),
	)
	return report, nil
}

// people writes staff and students in one unit of work.
func (s *Seeder) people(ctx context.Context, f *File, report *Report) error {
	return placement.Within(ctx, s.store, func(uow placement.UnitOfWork) error {
		for _, rec := range f.Staff {
			member, err := staff.NewStaff(staff.NewStaffParams{
				ID:         rec.ID,
				Name:       rec.Name,
				Role:       rec.Role,
				Department: rec.Department,
				Email:      rec.Email,
			})
			if err != nil {
				return fmt.Errorf("seed: staff %s: %w", rec.ID, err)
			}
			if _, err := uow.Staff().GetByID(ctx, member.ID); err == nil {
				report.Skipped++
				continue
			} else if !shared.IsNotFound(err) {
				return err
			}
			if err := uow.Staff().Save(ctx, member); err != nil {
				return err
			}
			report.Staff++
		}

		for _, rec := range f.Students {
			st, err := student.NewStudent(student.NewStudentParams{
				ID:          rec.ID,
				Name:        rec.Name,
				YearOfStudy: rec.Year,
				Major:       rec.Major,
				Email:       rec.Email,
			})
			if err != nil {
				return fmt.Errorf("seed: student %s: %w", rec.ID, err)
			}
			if _, err := uow.Students().GetByID(ctx, st.ID); err == nil {
				report.Skipped++
				continue
			} else if !shared.IsNotFound(err) {
				return err
			}
			if err := uow.Students().Save(ctx, st); err != nil {
				return err
			}
			report.Students++
		}
		return nil
	})
}

func (s *Seeder) rep(ctx context.Context, r RepRecord, reviewer string, report *Report) error {
	res, err := s.handlers.RegisterRep.Handle(ctx, command.RegisterRepCommand{
		Name:        r.Name,
		CompanyName: r.Company,
		Department:  r.Department,
		Position:    r.Position,
		Email:       r.Email,
	})
	if shared.IsAlreadyExists(err) {
		report.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	report.Reps++

	if !r.Approved {
		return nil
	}
	if reviewer == "" {
		return errors.New("approved rep needs at least one staff member")
	}
	_, err = s.handlers.ReviewRep.Handle(ctx, command.ReviewRepCommand{StaffID: reviewer, RepID: res.Rep.ID, Approve: true})
	return err
}

func (s *Seeder) internship(ctx context.Context, rec InternshipRecord, reviewer string, report *Report) error {
	repID := shared.NormalizeEmail(rec.RepEmail)
	rep, err := s.store.Reader().CompanyReps().GetByID(ctx, repID)
	if err != nil {
		return err
	}

	existing, err := s.store.Reader().Internships().List(ctx, internship.Filter{CompanyName: rep.CompanyName})
	if err != nil {
		return err
	}
	for _, i := range existing {
		if strings.EqualFold(i.Title, strings.TrimSpace(rec.Title)) {
			report.Skipped++
			return nil
		}
	}

	openDate, err := shared.ParseDate(rec.OpenDate)
	if err != nil {
		return err
	}
	closeDate, err := shared.ParseDate(rec.CloseDate)
	if err != nil {
		return err
	}

	res, err := s.handlers.CreateInternship.Handle(ctx, command.CreateInternshipCommand{
		RepID: repID,
		Details: command.PostingDetails{
			Title:          rec.Title,
			Description:    rec.Description,
			Level:          rec.Level,
			PreferredMajor: rec.PreferredMajor,
			OpenDate:       openDate,
			CloseDate:      closeDate,
			MaxSlots:       rec.MaxSlots,
		},
	})
	if err != nil {
		return err
	}
	report.Internships++

	status := strings.ToLower(strings.TrimSpace(rec.Status))
	switch status {
	case "", "pending":
		return nil
	case "approved", "rejected":
	default:
		return shared.Errorf("seed", "Internship", shared.ErrInvalidInput, "unknown status %q", rec.Status)
	}
	if reviewer == "" {
		return errors.New("reviewed posting needs at least one staff member")
	}
	_, err = s.handlers.ReviewInternship.Handle(ctx, command.ReviewInternshipCommand{
		StaffID:      reviewer,
		InternshipID: res.Internship.ID,
		Approve:      status == "approved",
		MakeVisible:  rec.Visible,
	})
	return err
}
