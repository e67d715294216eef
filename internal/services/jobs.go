package services

import (
	"context"
	"strings"
	"time"

	"github.com/techjobs/backend/internal/config"
	"github.com/techjobs/backend/internal/entities"
	"github.com/techjobs/backend/internal/events"
	"github.com/techjobs/backend/internal/metrics"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// JobService owns the job listing collection. Mutations are employer-only
// and every one of them rewrites the persisted collection.
type JobService struct {
	jobs     *collection[entities.Job]
	validate *validator.Validate
	bus      EventBus.Bus
	cfg      config.StoreConfig
	newID    idGenerator
	now      clock
}

func NewJobService(ctx context.Context, store collectionStore, bus EventBus.Bus, cfg config.StoreConfig) (*JobService, error) {

	jobs, err := loadCollection[entities.Job](ctx, store, jobsCollection, cfg.PersistEmpty)
	if err != nil {
		return nil, err
	}

	return &JobService{
		jobs:     jobs,
		validate: validator.New(),
		bus:      bus,
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}, nil
}

// Create parses the requirements text into one entry per non-blank line and
// prepends the new listing, so default ordering is most-recent-first.
func (s *JobService) Create(ctx context.Context, user *entities.User, form entities.JobForm) (string, error) {

	if err := s.requireEmployer(user); err != nil {
		return "", err
	}
	if err := s.validate.Struct(form); err != nil {
		return "", errors.Wrap(err, "invalid job form")
	}

	defer observeOperation("job_create")()
	simulate(s.cfg.WriteLatency)

	now := s.now()
	job := entities.Job{
		ID:           s.newID(),
		Title:        form.Title,
		Description:  form.Description,
		Requirements: parseRequirements(form.Requirements),
		Company:      form.Company,
		Location:     form.Location,
		Salary:       form.Salary,
		Type:         form.Type,
		Level:        form.Level,
		EmployerID:   user.ID,
		EmployerName: user.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.jobs.update(ctx, func(jobs []entities.Job) ([]entities.Job, bool) {
		return append([]entities.Job{job}, jobs...), true
	})
	if err != nil {
		return "", err
	}

	metrics.JobsCreatedCounter.Inc()
	s.bus.Publish(events.JobCreatedTopic, events.JobCreated{
		JobID:      job.ID,
		Title:      job.Title,
		EmployerID: job.EmployerID,
	})
	return job.ID, nil
}

// Update applies only when both the id and the caller's employer id match.
// What happens on an ownership mismatch depends on the configured policy:
// the listing stays untouched either way, but the silent policy reports
// success while the error policy rejects the call.
func (s *JobService) Update(ctx context.Context, user *entities.User, id string, form entities.JobForm) error {

	if err := s.requireEmployer(user); err != nil {
		return err
	}
	if err := s.validate.Struct(form); err != nil {
		return errors.Wrap(err, "invalid job form")
	}

	defer observeOperation("job_update")()
	simulate(s.cfg.WriteLatency)

	matched := false
	err := s.jobs.update(ctx, func(jobs []entities.Job) ([]entities.Job, bool) {
		for i := range jobs {
			if jobs[i].ID != id || jobs[i].EmployerID != user.ID {
				continue
			}
			jobs[i].Title = form.Title
			jobs[i].Description = form.Description
			jobs[i].Requirements = parseRequirements(form.Requirements)
			jobs[i].Company = form.Company
			jobs[i].Location = form.Location
			jobs[i].Salary = form.Salary
			jobs[i].Type = form.Type
			jobs[i].Level = form.Level
			jobs[i].UpdatedAt = s.now()
			matched = true
		}
		return jobs, matched
	})
	if err != nil {
		return err
	}

	if !matched {
		return s.mismatchResult(id)
	}
	return nil
}

func (s *JobService) Delete(ctx context.Context, user *entities.User, id string) error {

	if err := s.requireEmployer(user); err != nil {
		return err
	}

	defer observeOperation("job_delete")()
	simulate(s.cfg.DeleteLatency)

	removed := false
	err := s.jobs.update(ctx, func(jobs []entities.Job) ([]entities.Job, bool) {
		kept := lo.Reject(jobs, func(job entities.Job, _ int) bool {
			return job.ID == id && job.EmployerID == user.ID
		})
		removed = len(kept) != len(jobs)
		return kept, removed
	})
	if err != nil {
		return err
	}

	if !removed {
		return s.mismatchResult(id)
	}

	s.bus.Publish(events.JobDeletedTopic, events.JobDeleted{JobID: id, EmployerID: user.ID})
	return nil
}

func (s *JobService) GetByID(id string) (*entities.Job, error) {
	for _, job := range s.jobs.snapshot() {
		if job.ID == id {
			return &job, nil
		}
	}
	return nil, ErrJobNotFound
}

func (s *JobService) ListAll() []entities.Job {
	return s.jobs.snapshot()
}

func (s *JobService) ListMine(user *entities.User) []entities.Job {
	if user == nil {
		return nil
	}
	return lo.Filter(s.jobs.snapshot(), func(job entities.Job, _ int) bool {
		return job.EmployerID == user.ID
	})
}

// Search filters by a case-insensitive term over title, company and
// description, plus exact type and level matches. Empty or "all" disables
// the corresponding filter.
func (s *JobService) Search(term string, jobType, level string) []entities.Job {

	term = strings.ToLower(term)

	return lo.Filter(s.jobs.snapshot(), func(job entities.Job, _ int) bool {
		if term != "" &&
			!strings.Contains(strings.ToLower(job.Title), term) &&
			!strings.Contains(strings.ToLower(job.Company), term) &&
			!strings.Contains(strings.ToLower(job.Description), term) {
			return false
		}
		if jobType != "" && jobType != "all" && string(job.Type) != jobType {
			return false
		}
		if level != "" && level != "all" && string(job.Level) != level {
			return false
		}
		return true
	})
}

func (s *JobService) requireEmployer(user *entities.User) error {
	if user == nil {
		return ErrNotAuthenticated
	}
	if user.Type != entities.UserTypeEmployer {
		return ErrNotEmployer
	}
	return nil
}

func (s *JobService) mismatchResult(id string) error {
	if s.cfg.OwnershipMismatch != config.OwnershipError {
		return nil
	}
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return ErrNotOwner
}

func parseRequirements(text string) []string {
	return lo.Filter(strings.Split(text, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
}
