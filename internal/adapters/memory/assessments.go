package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"bizready/internal/domain"
	"bizready/internal/ports"
)

type assessment struct {
	req    ports.AssessmentRequest
	status string
	err    string
	plan   []byte
}

type job struct {
	id           string
	assessmentID string
	status       string
}

// AssessmentStore implements ports.AssessmentRepository and
// ports.JobRepository in memory. Jobs are claimed in creation order.
type AssessmentStore struct {
	mu          sync.Mutex
	assessments map[string]*assessment
	jobs        []*job
}

func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{assessments: map[string]*assessment{}}
}

func (s *AssessmentStore) Create(_ context.Context, req ports.AssessmentRequest, dispatch ports.Dispatch) (ports.AssessmentJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := "queued"
	if dispatch == ports.DispatchInline {
		status = "running"
	}
	id := uuid.NewString()
	req.Characteristics = maps.Clone(req.Characteristics)
	s.assessments[id] = &assessment{req: req, status: status}
	j := &job{id: uuid.NewString(), assessmentID: id, status: status}
	s.jobs = append(s.jobs, j)
	return ports.AssessmentJob{ID: j.id, AssessmentID: id}, nil
}

func (s *AssessmentStore) Request(_ context.Context, assessmentID string) (ports.AssessmentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[assessmentID]
	if !ok {
		return ports.AssessmentRequest{}, domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	req := a.req
	req.Characteristics = maps.Clone(a.req.Characteristics)
	return req, nil
}

func (s *AssessmentStore) Status(_ context.Context, assessmentID string) (ports.AssessmentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[assessmentID]
	if !ok {
		return ports.AssessmentStatus{}, domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	return ports.AssessmentStatus{ID: assessmentID, Status: a.status, Error: a.err, Plan: a.plan}, nil
}

func (s *AssessmentStore) SavePlan(_ context.Context, assessmentID string, plan []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[assessmentID]
	if !ok {
		return domain.NotFound(domain.StageStore, "assessment", assessmentID)
	}
	a.plan = append([]byte(nil), plan...)
	return nil
}

func (s *AssessmentStore) ClaimNext(context.Context) (ports.AssessmentJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.status == "queued" {
			s.start(j)
			return ports.AssessmentJob{ID: j.id, AssessmentID: j.assessmentID}, true, nil
		}
	}
	return ports.AssessmentJob{}, false, nil
}

func (s *AssessmentStore) MarkCompleted(_ context.Context, jobID string) error {
	return s.finish(jobID, "completed", "")
}

func (s *AssessmentStore) MarkFailed(_ context.Context, jobID string, reason string) error {
	return s.finish(jobID, "failed", reason)
}

func (s *AssessmentStore) start(j *job) {
	j.status = "running"
	s.assessments[j.assessmentID].status = "running"
}

func (s *AssessmentStore) finish(jobID, status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.id == jobID {
			j.status = status
			a := s.assessments[j.assessmentID]
			a.status, a.err = status, reason
			return nil
		}
	}
	return domain.NotFound(domain.StageStore, "job", jobID)
}
