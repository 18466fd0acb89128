package model

import "time"

// Task is a question template in the shared pool
type Task struct {
	ID        string    `json:"id" bson:"_id"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer,omitempty" bson:"answer"` // Admin views only
	Hint      string    `json:"hint,omitempty" bson:"hint,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TaskAssignment is one player's working instance of a task for the current round
type TaskAssignment struct {
	ID         string    `json:"id" bson:"_id"`
	Username   string    `json:"username" bson:"username"`
	TaskID     string    `json:"taskId" bson:"taskId"`
	Completed  bool      `json:"completed" bson:"completed"`
	AssignedAt time.Time `json:"assignedAt" bson:"assignedAt"`
}

// AssignedTask is what a player sees of their assignment
type AssignedTask struct {
	AssignmentID string `json:"assignmentId"`
	TaskID       string `json:"taskId"`
	Question     string `json:"question"`
	HasHint      bool   `json:"hasHint"`
	Completed    bool   `json:"completed"`
}

// AddTaskRequest is the request body for adding a task to the pool
type AddTaskRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Hint     string `json:"hint"`
}

// SubmitAnswerRequest is the request body for answering a task
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// SubmitAnswerResponse reports whether the answer matched
type SubmitAnswerResponse struct {
	Correct      bool   `json:"correct"`
	AlreadyDone  bool   `json:"alreadyDone,omitempty"`
	ScoreAwarded int    `json:"scoreAwarded"`
	Message      string `json:"message"`
}

// TaskProgress is the round-wide task completion overview
type TaskProgress struct {
	TotalTasks          int     `json:"totalTasks"`
	CompletedTasks      int     `json:"completedTasks"`
	TaskTarget          int     `json:"taskTarget"`
	PercentageCompleted float64 `json:"percentageCompleted"`
}
