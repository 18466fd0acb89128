package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"crewhunt/internal/config"
	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

// ReassignMode selects how a dead player's open tasks are handed out
type ReassignMode int

const (
	// ReassignBalanced gives every orphaned task to a survivor
	ReassignBalanced ReassignMode = iota
	// ReassignProbabilistic keeps each orphaned task with probability 1/scale
	// and drops the rest
	ReassignProbabilistic
)

// Reassignment counts the open tasks taken from a victim and recreated among survivors
type Reassignment struct {
	Removed int
	Created int
}

// Dropped is the number of removed tasks that were not recreated
func (r Reassignment) Dropped() int {
	return r.Removed - r.Created
}

// TaskService handles the task pool, per-round assignments and answers
type TaskService struct {
	tasks       repository.TaskRepo
	assignments repository.AssignmentRepo
	sessions    repository.SessionRepo
	players     repository.PlayerRepo
	playerSvc   *PlayerService
	cfg         *config.GameConfig
	rng         Randomizer
	now         func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(
	tasks repository.TaskRepo,
	assignments repository.AssignmentRepo,
	sessions repository.SessionRepo,
	players repository.PlayerRepo,
	playerSvc *PlayerService,
	cfg *config.GameConfig,
	rng Randomizer,
) *TaskService {
	return &TaskService{
		tasks:       tasks,
		assignments: assignments,
		sessions:    sessions,
		players:     players,
		playerSvc:   playerSvc,
		cfg:         cfg,
		rng:         rng,
		now:         time.Now,
	}
}

// AddTask adds a question to the shared pool
func (s *TaskService) AddTask(ctx context.Context, req *model.AddTaskRequest) (*model.Task, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" || answer == "" {
		return nil, ErrInvalidTask
	}
	task := &model.Task{
		Question:  question,
		Answer:    answer,
		Hint:      strings.TrimSpace(req.Hint),
		CreatedAt: s.now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks returns the whole pool, answers included
func (s *TaskService) ListTasks(ctx context.Context) ([]*model.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// PoolSize is the number of tasks in the pool
func (s *TaskService) PoolSize(ctx context.Context) (int, error) {
	n, err := s.tasks.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// CompletionTarget is ceil(players * tasksPerPlayer * ratio)
func CompletionTarget(players, tasksPerPlayer int, ratio float64) int {
	// The epsilon absorbs float error such as 40*0.8 landing just above 32
	return int(math.Ceil(float64(players*tasksPerPlayer)*ratio - 1e-9))
}

// StartRound clears every assignment and draws tasksPerPlayer tasks with
// replacement for each player. It freezes the completion target in the session.
func (s *TaskService) StartRound(ctx context.Context, usernames []string, tasksPerPlayer int) (*model.GameSession, int, error) {
	if tasksPerPlayer < 1 {
		return nil, 0, ErrInvalidTasksPerPlayer
	}
	pool, err := s.tasks.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(pool) == 0 {
		return nil, 0, ErrNoTasksInPool
	}

	if err := s.assignments.DeleteAll(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to clear assignments: %w", err)
	}

	now := s.now()
	drawn := make([]*model.TaskAssignment, 0, len(usernames)*tasksPerPlayer)
	for _, username := range usernames {
		for i := 0; i < tasksPerPlayer; i++ {
			task := pool[s.rng.Intn(len(pool))]
			drawn = append(drawn, &model.TaskAssignment{
				Username:   username,
				TaskID:     task.ID,
				AssignedAt: now,
			})
		}
	}
	if err := s.assignments.InsertMany(ctx, drawn); err != nil {
		return nil, 0, fmt.Errorf("failed to assign tasks: %w", err)
	}

	target := CompletionTarget(len(usernames), tasksPerPlayer, s.cfg.CompletionRatio)
	session, err := s.sessions.StartRound(ctx, tasksPerPlayer, target, now)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to start round: %w", err)
	}
	return session, len(drawn), nil
}

// ReassignOnDeath moves the victim's open tasks to the surviving crewmates.
// With no survivors the victim keeps them.
func (s *TaskService) ReassignOnDeath(ctx context.Context, victim string, mode ReassignMode) (*Reassignment, error) {
	crewmates, err := s.players.ListByRole(ctx, model.RoleCrewmate)
	if err != nil {
		return nil, fmt.Errorf("failed to list crewmates: %w", err)
	}
	survivors := make([]string, 0, len(crewmates))
	for _, p := range crewmates {
		if p.Username != victim {
			survivors = append(survivors, p.Username)
		}
	}
	if len(survivors) == 0 {
		return &Reassignment{}, nil
	}

	orphans, err := s.assignments.TakeIncomplete(ctx, victim)
	if err != nil {
		return nil, fmt.Errorf("failed to take tasks of %s: %w", victim, err)
	}
	result := &Reassignment{Removed: len(orphans)}
	if len(orphans) == 0 {
		return result, nil
	}

	// Least loaded first, ties by name
	load, err := s.assignments.IncompleteCounts(ctx, survivors)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	sort.Slice(survivors, func(i, j int) bool {
		if load[survivors[i]] != load[survivors[j]] {
			return load[survivors[i]] < load[survivors[j]]
		}
		return survivors[i] < survivors[j]
	})

	keep := func() bool { return true }
	if mode == ReassignProbabilistic {
		total, err := s.players.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
		p := 1 / float64(s.cfg.RemoteScale(len(total)))
		keep = func() bool { return s.rng.Float64() < p }
	}

	now := s.now()
	created := make([]*model.TaskAssignment, 0, len(orphans))
	for _, orphan := range orphans {
		if !keep() {
			continue
		}
		created = append(created, &model.TaskAssignment{
			Username:   survivors[len(created)%len(survivors)],
			TaskID:     orphan.TaskID,
			AssignedAt: now,
		})
	}
	if err := s.assignments.InsertMany(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to reassign tasks: %w", err)
	}
	result.Created = len(created)

	log.Printf("[Tasks] %s's %d open tasks: %d reassigned, %d dropped", victim, result.Removed, result.Created, result.Dropped())
	return result, nil
}

// SubmitAnswer checks an answer case-insensitively. A correct answer completes
// one open assignment of the task and awards the task reward once.
func (s *TaskService) SubmitAnswer(ctx context.Context, username, taskID, answer string) (*model.SubmitAnswerResponse, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	assigned, err := s.assignments.Exists(ctx, username, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if !assigned {
		return nil, ErrTaskNotAssigned
	}

	if !strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(task.Answer)) {
		return &model.SubmitAnswerResponse{Correct: false, Message: "Incorrect answer"}, nil
	}

	completed, err := s.assignments.CompleteOne(ctx, username, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if !completed {
		return &model.SubmitAnswerResponse{Correct: true, AlreadyDone: true, Message: "Task already completed"}, nil
	}

	reward := s.cfg.Rewards.TaskCompleted
	if _, err := s.playerSvc.AdjustScore(ctx, username, reward); err != nil {
		return nil, err
	}
	return &model.SubmitAnswerResponse{Correct: true, ScoreAwarded: reward, Message: "Task completed"}, nil
}

// RequestHint returns the hint of a task
func (s *TaskService) RequestHint(ctx context.Context, taskID string) (string, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return "", ErrTaskNotFound
	}
	if strings.TrimSpace(task.Hint) == "" {
		return "", ErrHintUnavailable
	}
	return task.Hint, nil
}

// MyTasks returns the caller's assignments with their questions
func (s *TaskService) MyTasks(ctx context.Context, username string) ([]model.AssignedTask, error) {
	assignments, err := s.assignments.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.TaskID)
	}
	tasks, err := s.tasks.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	out := make([]model.AssignedTask, 0, len(assignments))
	for _, a := range assignments {
		task, ok := tasks[a.TaskID]
		if !ok {
			continue
		}
		out = append(out, model.AssignedTask{
			AssignmentID: a.ID,
			TaskID:       a.TaskID,
			Question:     task.Question,
			HasHint:      task.Hint != "",
			Completed:    a.Completed,
		})
	}
	return out, nil
}

// CompletedCount is the number of completed assignments this round
func (s *TaskService) CompletedCount(ctx context.Context) (int, error) {
	n, err := s.assignments.CountCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return n, nil
}

// Progress reports completed assignments against the frozen target
func (s *TaskService) Progress(ctx context.Context) (*model.TaskProgress, error) {
	total, err := s.assignments.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	completed, err := s.CompletedCount(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	progress := &model.TaskProgress{
		TotalTasks:     total,
		CompletedTasks: completed,
		TaskTarget:     session.TaskCompletionTarget,
	}
	if session.TaskCompletionTarget > 0 {
		progress.PercentageCompleted = math.Min(100, float64(completed)*100/float64(session.TaskCompletionTarget))
	}
	return progress, nil
}

// DefaultTasks is the starter pool inserted into an empty task collection
var DefaultTasks = []model.AddTaskRequest{
	{Question: "What is an apple?", Answer: "fruit", Hint: "the answer is a type of food that grows on trees"},
}

// SeedDefaults adds tasks when the pool is empty and returns how many were added
func (s *TaskService) SeedDefaults(ctx context.Context, tasks []model.AddTaskRequest) (int, error) {
	n, err := s.PoolSize(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i := range tasks {
		if _, err := s.AddTask(ctx, &tasks[i]); err != nil {
			return i, err
		}
	}
	return len(tasks), nil
}
