package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"aimentor/db"
	"aimentor/models"
	"aimentor/services/tutor"

	"go.uber.org/zap"
)

var testLogger = zap.NewNop().Sugar()

func notFound(what string, id int) error {
	return fmt.Errorf("%s with id %d: %w", what, id, db.ErrNotFound)
}

type memoryChats struct {
	mu     sync.Mutex
	nextID int
	items  map[int]models.Chat
}

func newMemoryChats() *memoryChats {
	return &memoryChats{items: map[int]models.Chat{}}
}

func (m *memoryChats) CreateChat(_ context.Context, chat *models.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	chat.ID = m.nextID
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = chat.CreatedAt
	m.items[chat.ID] = *chat
	return nil
}

func (m *memoryChats) GetChat(_ context.Context, learnerID string, id int) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, ok := m.items[id]
	if !ok || chat.LearnerID != learnerID {
		return nil, notFound("chat", id)
	}
	chat.Messages = append([]models.ChatMessage(nil), chat.Messages...)
	return &chat, nil
}

func (m *memoryChats) ListChats(_ context.Context, learnerID string) ([]*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Chat{}
	for _, chat := range m.items {
		if chat.LearnerID == learnerID {
			c := chat
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryChats) UpdateChat(_ context.Context, chat *models.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[chat.ID]
	if !ok || existing.LearnerID != chat.LearnerID {
		return notFound("chat", chat.ID)
	}
	chat.UpdatedAt = time.Now()
	m.items[chat.ID] = *chat
	return nil
}

func (m *memoryChats) DeleteChat(_ context.Context, learnerID string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, ok := m.items[id]
	if !ok || chat.LearnerID != learnerID {
		return notFound("chat", id)
	}
	delete(m.items, id)
	return nil
}

type memoryExams struct {
	nextID int
	items  map[int]models.Exam
}

func newMemoryExams() *memoryExams {
	return &memoryExams{items: map[int]models.Exam{}}
}

func (m *memoryExams) CreateExam(_ context.Context, exam *models.Exam) error {
	m.nextID++
	exam.ID = m.nextID
	m.items[exam.ID] = *exam
	return nil
}

func (m *memoryExams) GetExam(_ context.Context, learnerID string, id int) (*models.Exam, error) {
	exam, ok := m.items[id]
	if !ok || exam.LearnerID != learnerID {
		return nil, notFound("exam", id)
	}
	return &exam, nil
}

func (m *memoryExams) ListExams(_ context.Context, learnerID string) ([]*models.Exam, error) {
	out := []*models.Exam{}
	for _, exam := range m.items {
		if exam.LearnerID == learnerID {
			e := exam
			out = append(out, &e)
		}
	}
	return out, nil
}

func (m *memoryExams) UpdateExam(_ context.Context, exam *models.Exam) error {
	existing, ok := m.items[exam.ID]
	if !ok || existing.LearnerID != exam.LearnerID {
		return notFound("exam", exam.ID)
	}
	m.items[exam.ID] = *exam
	return nil
}

func (m *memoryExams) DeleteExam(_ context.Context, learnerID string, id int) error {
	exam, ok := m.items[id]
	if !ok || exam.LearnerID != learnerID {
		return notFound("exam", id)
	}
	delete(m.items, id)
	return nil
}

type memorySummaries struct {
	nextID int
	items  map[int]models.Summary
}

func newMemorySummaries() *memorySummaries {
	return &memorySummaries{items: map[int]models.Summary{}}
}

func (m *memorySummaries) CreateSummary(_ context.Context, summary *models.Summary) error {
	m.nextID++
	summary.ID = m.nextID
	m.items[summary.ID] = *summary
	return nil
}

func (m *memorySummaries) GetSummary(_ context.Context, learnerID string, id int) (*models.Summary, error) {
	summary, ok := m.items[id]
	if !ok || summary.LearnerID != learnerID {
		return nil, notFound("summary", id)
	}
	return &summary, nil
}

func (m *memorySummaries) GetSummariesByIDs(_ context.Context, learnerID string, ids []int) ([]*models.Summary, error) {
	out := []*models.Summary{}
	for id, summary := range m.items {
		for _, want := range ids {
			if id == want && summary.LearnerID == learnerID {
				s := summary
				out = append(out, &s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memorySummaries) ListSummaries(ctx context.Context, learnerID string) ([]*models.Summary, error) {
	out := []*models.Summary{}
	for _, summary := range m.items {
		if summary.LearnerID == learnerID {
			s := summary
			out = append(out, &s)
		}
	}
	return out, nil
}

func (m *memorySummaries) ListAllSummaries(context.Context) ([]*models.Summary, error) {
	out := []*models.Summary{}
	for _, summary := range m.items {
		s := summary
		out = append(out, &s)
	}
	return out, nil
}

func (m *memorySummaries) UpdateSummary(_ context.Context, summary *models.Summary) error {
	existing, ok := m.items[summary.ID]
	if !ok || existing.LearnerID != summary.LearnerID {
		return notFound("summary", summary.ID)
	}
	m.items[summary.ID] = *summary
	return nil
}

func (m *memorySummaries) DeleteSummary(_ context.Context, learnerID string, id int) error {
	summary, ok := m.items[id]
	if !ok || summary.LearnerID != learnerID {
		return notFound("summary", id)
	}
	delete(m.items, id)
	return nil
}

type memoryExperts struct {
	nextID  int
	items   map[int]models.Expert
	creates int
}

func newMemoryExperts() *memoryExperts {
	return &memoryExperts{items: map[int]models.Expert{}}
}

func (m *memoryExperts) CreateExpert(_ context.Context, expert *models.Expert) error {
	m.creates++
	m.nextID++
	expert.ID = m.nextID
	m.items[expert.ID] = *expert
	return nil
}

func (m *memoryExperts) GetExpert(_ context.Context, learnerID string, id int) (*models.Expert, error) {
	expert, ok := m.items[id]
	if !ok || expert.LearnerID != learnerID {
		return nil, notFound("expert", id)
	}
	return &expert, nil
}

func (m *memoryExperts) ListExperts(_ context.Context, learnerID string) ([]*models.Expert, error) {
	out := []*models.Expert{}
	for _, expert := range m.items {
		if expert.LearnerID == learnerID {
			e := expert
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryExperts) UpdateExpert(_ context.Context, expert *models.Expert) error {
	existing, ok := m.items[expert.ID]
	if !ok || existing.LearnerID != expert.LearnerID || existing.IsPreset {
		return notFound("expert", expert.ID)
	}
	m.items[expert.ID] = *expert
	return nil
}

func (m *memoryExperts) DeleteExpert(_ context.Context, learnerID string, id int) error {
	expert, ok := m.items[id]
	if !ok || expert.LearnerID != learnerID || expert.IsPreset {
		return notFound("expert", id)
	}
	delete(m.items, id)
	return nil
}

type memoryProfiles struct {
	items   map[string]models.Profile
	upserts int
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{items: map[string]models.Profile{}}
}

func (m *memoryProfiles) GetProfile(_ context.Context, learnerID string) (*models.Profile, error) {
	profile, ok := m.items[learnerID]
	if !ok {
		return nil, fmt.Errorf("profile for learner %s: %w", learnerID, db.ErrNotFound)
	}
	return &profile, nil
}

func (m *memoryProfiles) UpsertProfile(_ context.Context, profile *models.Profile) error {
	m.upserts++
	if existing, ok := m.items[profile.LearnerID]; ok {
		profile.ID = existing.ID
		profile.XP = existing.XP
	} else {
		profile.ID = len(m.items) + 1
	}
	m.items[profile.LearnerID] = *profile
	return nil
}

type fakeTutor struct {
	analysis    *models.SourceAnalysis
	analysisErr error
	reply       *models.TutorReply
	replyErr    error
	exam        *models.GeneratedExam
	grading     *models.ExamGrading
	summary     *models.TextSummary
	summaryErr  error

	chatContext    string
	chatOptions    int
	gradeQuestions []models.ExamQuestion
	gradeAnswers   map[string]string
	analyzeCalls   int
}

func (f *fakeTutor) AnalyzeSource(_ context.Context, _ string) (*models.SourceAnalysis, error) {
	f.analyzeCalls++
	return f.analysis, f.analysisErr
}

func (f *fakeTutor) TutorChat(_ context.Context, chatContext, _ string, opts ...tutor.ChatOption) (*models.TutorReply, error) {
	f.chatContext = chatContext
	f.chatOptions = len(opts)
	return f.reply, f.replyErr
}

func (f *fakeTutor) GenerateExam(_ context.Context, _ string) (*models.GeneratedExam, error) {
	return f.exam, nil
}

func (f *fakeTutor) GradeExam(_ context.Context, _ string, questions []models.ExamQuestion, answers map[string]string) (*models.ExamGrading, error) {
	f.gradeQuestions = questions
	f.gradeAnswers = answers
	return f.grading, nil
}

func (f *fakeTutor) SummarizeText(_ context.Context, _ string) (*models.TextSummary, error) {
	return f.summary, f.summaryErr
}

type fakeIndex struct {
	indexed  []int
	deleted  []int
	ids      []int
	indexErr error
	search   error
}

func (f *fakeIndex) IndexSummary(_ context.Context, summary *models.Summary) error {
	f.indexed = append(f.indexed, summary.ID)
	return f.indexErr
}

func (f *fakeIndex) DeleteSummary(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) SearchSummaries(context.Context, string, string, int) ([]int, error) {
	return f.ids, f.search
}
