package service

import (
	"errors"
	"testing"

	"crewhunt/internal/model"
)

func TestCompletionTarget(t *testing.T) {
	cases := []struct {
		players, perPlayer int
		ratio              float64
		want               int
	}{
		{10, 4, 0.8, 32},
		{2, 3, 0.8, 5},
		{5, 1, 0.8, 4},
		{3, 1, 1, 3},
		{0, 4, 0.8, 0},
	}
	for _, c := range cases {
		if got := CompletionTarget(c.players, c.perPlayer, c.ratio); got != c.want {
			t.Fatalf("CompletionTarget(%d, %d, %v) = %d, want %d", c.players, c.perPlayer, c.ratio, got, c.want)
		}
	}
}

func TestAddTaskValidation(t *testing.T) {
	h := newHarness(t)
	if _, err := h.taskSvc.AddTask(h.ctx, &model.AddTaskRequest{Question: "  ", Answer: "x"}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for blank question, got %v", err)
	}
	if _, err := h.taskSvc.AddTask(h.ctx, &model.AddTaskRequest{Question: "Q?", Answer: ""}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for blank answer, got %v", err)
	}

	task := h.addTask(t, " Capital of France? ", " Paris ", "")
	if task.Question != "Capital of France?" || task.Answer != "Paris" || task.ID == "" {
		t.Fatalf("unexpected task %+v", task)
	}
	if n, _ := h.taskSvc.PoolSize(h.ctx); n != 1 {
		t.Fatalf("expected pool of 1, got %d", n)
	}
}

func TestSubmitAnswer(t *testing.T) {
	h := newHarness(t)
	task := h.addTask(t, "Capital of France?", "Paris", "")
	other := h.addTask(t, "What is 2+2?", "4", "")
	h.addPlayer(t, "amy", model.RoleDead)
	h.addPlayer(t, "bob", model.RoleDead)

	// fakeRand rotates through the pool: amy gets task, bob gets other
	h.startGame(t, 1)

	resp, err := h.taskSvc.SubmitAnswer(h.ctx, "amy", task.ID, "london")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if resp.Correct || h.score(t, "amy") != 0 {
		t.Fatalf("wrong answer must not score, got %+v", resp)
	}

	resp, err = h.taskSvc.SubmitAnswer(h.ctx, "amy", task.ID, "  PARIS ")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !resp.Correct || resp.AlreadyDone || resp.ScoreAwarded != 1 {
		t.Fatalf("expected a scored completion, got %+v", resp)
	}

	resp, err = h.taskSvc.SubmitAnswer(h.ctx, "amy", task.ID, "paris")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !resp.Correct || !resp.AlreadyDone || resp.ScoreAwarded != 0 {
		t.Fatalf("second submit must be a no-op, got %+v", resp)
	}
	if got := h.score(t, "amy"); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}

	if _, err := h.taskSvc.SubmitAnswer(h.ctx, "amy", other.ID, "4"); !errors.Is(err, ErrTaskNotAssigned) {
		t.Fatalf("expected ErrTaskNotAssigned, got %v", err)
	}
	if _, err := h.taskSvc.SubmitAnswer(h.ctx, "amy", "missing", "4"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if n, _ := h.taskSvc.CompletedCount(h.ctx); n != 1 {
		t.Fatalf("expected 1 completed, got %d", n)
	}
}

func TestRequestHint(t *testing.T) {
	h := newHarness(t)
	withHint := h.addTask(t, "What is an apple?", "fruit", "grows on trees")
	without := h.addTask(t, "What is 2+2?", "4", "")

	hint, err := h.taskSvc.RequestHint(h.ctx, withHint.ID)
	if err != nil || hint != "grows on trees" {
		t.Fatalf("expected hint, got %q, %v", hint, err)
	}
	if _, err := h.taskSvc.RequestHint(h.ctx, without.ID); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("expected ErrHintUnavailable, got %v", err)
	}
	if _, err := h.taskSvc.RequestHint(h.ctx, "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestMyTasksAndProgress(t *testing.T) {
	h := newHarness(t)
	task := h.addTask(t, "What is an apple?", "fruit", "grows on trees")
	h.addPlayer(t, "amy", model.RoleDead)
	h.addPlayer(t, "bob", model.RoleDead)

	progress, err := h.taskSvc.Progress(h.ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.TaskTarget != 0 || progress.PercentageCompleted != 0 {
		t.Fatalf("no round yet, got %+v", progress)
	}

	h.startGame(t, 2)
	mine, err := h.taskSvc.MyTasks(h.ctx, "amy")
	if err != nil {
		t.Fatalf("MyTasks: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(mine))
	}
	for _, a := range mine {
		if a.TaskID != task.ID || a.Question != task.Question || !a.HasHint || a.Completed {
			t.Fatalf("unexpected assignment %+v", a)
		}
	}

	h.taskSvc.SubmitAnswer(h.ctx, "amy", task.ID, "fruit")
	h.taskSvc.SubmitAnswer(h.ctx, "bob", task.ID, "fruit")

	progress, err = h.taskSvc.Progress(h.ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	// 4 assignments, target ceil(3.2) = 4
	if progress.TotalTasks != 4 || progress.CompletedTasks != 2 || progress.TaskTarget != 4 || progress.PercentageCompleted != 50 {
		t.Fatalf("unexpected progress %+v", progress)
	}

	h.taskSvc.SubmitAnswer(h.ctx, "amy", task.ID, "fruit")
	h.taskSvc.SubmitAnswer(h.ctx, "bob", task.ID, "fruit")
	progress, _ = h.taskSvc.Progress(h.ctx)
	if progress.PercentageCompleted != 100 {
		t.Fatalf("expected 100%%, got %v", progress.PercentageCompleted)
	}

	mine, _ = h.taskSvc.MyTasks(h.ctx, "amy")
	for _, a := range mine {
		if !a.Completed {
			t.Fatalf("all of amy's tasks should be complete")
		}
	}
}

func TestSeedDefaultsOnlyFillsEmptyPool(t *testing.T) {
	h := newHarness(t)
	n, err := h.taskSvc.SeedDefaults(h.ctx, DefaultTasks)
	if err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if n != len(DefaultTasks) {
		t.Fatalf("expected %d seeded, got %d", len(DefaultTasks), n)
	}
	n, err = h.taskSvc.SeedDefaults(h.ctx, DefaultTasks)
	if err != nil || n != 0 {
		t.Fatalf("second seed must be a no-op, got %d, %v", n, err)
	}

	tasks, _ := h.taskSvc.ListTasks(h.ctx)
	if len(tasks) != 1 || tasks[0].Answer != "fruit" {
		t.Fatalf("unexpected pool %+v", tasks)
	}
}
