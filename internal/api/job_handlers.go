package api

import (
	"net/http"

	"github.com/techjobs/backend/internal/entities"
	"github.com/techjobs/backend/pkg/timefmt"

	"github.com/samber/lo"
)

type jobView struct {
	entities.Job
	PostedLabel string `json:"postedLabel"`
}

func (s *Server) jobViews(jobs []entities.Job) []jobView {
	now := s.now()
	return lo.Map(jobs, func(job entities.Job, _ int) jobView {
		return jobView{Job: job, PostedLabel: timefmt.RelativeLabel(now, job.CreatedAt)}
	})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	jobs := s.jobs.Search(query.Get("q"), query.Get("type"), query.Get("level"))
	writeData(w, s.jobViews(jobs))
}

func (s *Server) handleMyJobs(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.jobViews(s.jobs.ListMine(userFrom(r))))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {

	job, err := s.jobs.GetByID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, jobView{Job: *job, PostedLabel: timefmt.RelativeLabel(s.now(), job.CreatedAt)})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {

	var form entities.JobForm
	if !decodeBody(w, r, &form) {
		return
	}

	id, err := s.jobs.Create(r.Context(), userFrom(r), form)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload{Success: true, Message: "Job created", Data: map[string]string{"id": id}})
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {

	var form entities.JobForm
	if !decodeBody(w, r, &form) {
		return
	}

	if err := s.jobs.Update(r.Context(), userFrom(r), r.PathValue("id"), form); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload{Success: true, Message: "Job updated"})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {

	if err := s.jobs.Delete(r.Context(), userFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload{Success: true, Message: "Job deleted"})
}
