package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"crewhunt/internal/cache"
	"crewhunt/internal/config"
	"crewhunt/internal/geo"
	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

// GameService is the round engine: kills, meetings, the win check and
// admin round control. Every role change goes through a conditional write.
type GameService struct {
	players   repository.PlayerRepo
	sessions  repository.SessionRepo
	votes     cache.VoteCache
	locations cache.LocationCache
	playerSvc *PlayerService
	taskSvc   *TaskService
	cfg       *config.GameConfig
	rng       Randomizer
	now       func() time.Time
}

// NewGameService creates a new game service
func NewGameService(
	players repository.PlayerRepo,
	sessions repository.SessionRepo,
	votes cache.VoteCache,
	locations cache.LocationCache,
	playerSvc *PlayerService,
	taskSvc *TaskService,
	cfg *config.GameConfig,
	rng Randomizer,
) *GameService {
	return &GameService{
		players:   players,
		sessions:  sessions,
		votes:     votes,
		locations: locations,
		playerSvc: playerSvc,
		taskSvc:   taskSvc,
		cfg:       cfg,
		rng:       rng,
		now:       time.Now,
	}
}

func (s *GameService) session(ctx context.Context) (*model.GameSession, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// checkKiller runs the checks shared by both kill paths
func (s *GameService) checkKiller(ctx context.Context, actor string) (*model.Player, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	if session.EmergencyMeetingActive {
		return nil, ErrMeetingActive
	}

	killer, err := s.playerSvc.GetPlayer(ctx, actor)
	if err != nil {
		return nil, err
	}
	if killer.Role != model.RoleImposter {
		return nil, ErrNotImposter
	}
	return killer, nil
}

func (s *GameService) onCooldown(killer *model.Player, cooldown time.Duration, now time.Time) bool {
	return cooldown > 0 && !killer.LastKillTime.IsZero() && now.Sub(killer.LastKillTime) < cooldown
}

// Kill eliminates the nearest crewmate within kill range of the actor
func (s *GameService) Kill(ctx context.Context, actor string) (*model.KillResult, error) {
	killer, err := s.checkKiller(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if s.onCooldown(killer, s.cfg.CooldownTime, now) {
		return nil, ErrKillCooldown
	}

	origin, err := s.locations.Get(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if origin == nil {
		return nil, ErrNoLocation
	}

	crewmates, err := s.players.ListByRole(ctx, model.RoleCrewmate)
	if err != nil {
		return nil, fmt.Errorf("failed to list crewmates: %w", err)
	}
	locations, err := s.locations.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}
	candidates := make([]geo.Point, 0, len(crewmates))
	for _, p := range crewmates {
		if loc, ok := locations[p.Username]; ok {
			candidates = append(candidates, locationPoint(loc))
		}
	}

	victim, ok := geo.Nearest(locationPoint(origin), candidates, s.cfg.KillRangeMeters)
	if !ok {
		return nil, ErrNoTargetInRange
	}

	return s.eliminateOnce(ctx, killer, victim.Name, ReassignBalanced, s.cfg.CooldownTime, now)
}

// KillRemote eliminates the named crewmate regardless of distance
func (s *GameService) KillRemote(ctx context.Context, actor, target string) (*model.KillResult, error) {
	killer, err := s.checkKiller(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if s.onCooldown(killer, s.cfg.RemoteKillCooldown, now) {
		return nil, ErrKillCooldown
	}

	victim, err := s.players.GetByUsername(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get target: %w", err)
	}
	if victim == nil {
		return nil, ErrTargetNotFound
	}
	if victim.Role != model.RoleCrewmate {
		return nil, ErrTargetNotCrewmate
	}

	if s.cfg.RemoteKillCooldown <= 0 {
		return s.eliminate(ctx, actor, victim.Username, ReassignProbabilistic)
	}
	return s.eliminateOnce(ctx, killer, victim.Username, ReassignProbabilistic, s.cfg.RemoteKillCooldown, now)
}

// eliminateOnce takes the killer's cooldown slot before eliminating, so two
// concurrent kills by the same imposter cannot both pass the cooldown. The
// slot is given back when the victim was already taken.
func (s *GameService) eliminateOnce(ctx context.Context, killer *model.Player, victim string, mode ReassignMode, cooldown time.Duration, now time.Time) (*model.KillResult, error) {
	claimed, err := s.players.ClaimKillSlot(ctx, killer.Username, now, cooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to claim kill: %w", err)
	}
	if !claimed {
		return nil, ErrKillCooldown
	}

	result, err := s.eliminate(ctx, killer.Username, victim, mode)
	if errors.Is(err, ErrTargetAlreadyDead) {
		if rerr := s.players.SetLastKillTime(ctx, killer.Username, killer.LastKillTime); rerr != nil {
			log.Printf("[Game] Failed to restore kill time of %s: %v", killer.Username, rerr)
		}
	}
	return result, err
}

func (s *GameService) eliminate(ctx context.Context, actor, victim string, mode ReassignMode) (*model.KillResult, error) {
	killed, err := s.players.CompareAndSetRole(ctx, victim, model.RoleCrewmate, model.RoleDead)
	if err != nil {
		return nil, fmt.Errorf("failed to kill %s: %w", victim, err)
	}
	if !killed {
		return nil, ErrTargetAlreadyDead
	}

	if _, err := s.playerSvc.AdjustScore(ctx, actor, s.cfg.Rewards.Kill); err != nil {
		return nil, err
	}
	moved, err := s.taskSvc.ReassignOnDeath(ctx, victim, mode)
	if err != nil {
		return nil, err
	}

	log.Printf("[Game] %s killed %s", actor, victim)
	return &model.KillResult{
		Victim:     victim,
		Reassigned: moved.Created,
		Dropped:    moved.Dropped(),
		Message:    fmt.Sprintf("You eliminated %s", victim),
	}, nil
}

// StartMeeting opens an emergency meeting
func (s *GameService) StartMeeting(ctx context.Context) error {
	started, err := s.sessions.SetMeetingActive(ctx, false, true)
	if err != nil {
		return fmt.Errorf("failed to start meeting: %w", err)
	}
	if !started {
		return ErrMeetingAlreadyActive
	}
	if err := s.votes.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	log.Println("[Game] Emergency meeting started")
	return nil
}

// MeetingStatus reports whether a meeting is running
func (s *GameService) MeetingStatus(ctx context.Context) (*model.MeetingStatus, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	status := &model.MeetingStatus{Active: session.EmergencyMeetingActive}
	if status.Active {
		votes, err := s.votes.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get votes: %w", err)
		}
		status.VotesCast = len(votes)
	}
	return status, nil
}

// CastVote records the voter's choice. An empty target is a skip.
func (s *GameService) CastVote(ctx context.Context, voter, target string) error {
	session, err := s.session(ctx)
	if err != nil {
		return err
	}
	if !session.EmergencyMeetingActive {
		return ErrNoMeeting
	}

	player, err := s.playerSvc.GetPlayer(ctx, voter)
	if err != nil {
		return err
	}
	if !player.Role.Alive() {
		return ErrVoterDead
	}

	if target != "" {
		suspect, err := s.players.GetByUsername(ctx, target)
		if err != nil {
			return fmt.Errorf("failed to get vote target: %w", err)
		}
		if suspect == nil || !suspect.Role.Alive() || s.playerSvc.IsAdmin(suspect.Username) {
			return ErrInvalidVoteTarget
		}
	}

	if err := s.votes.Cast(ctx, voter, target); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	return nil
}

// EndMeeting closes the meeting and resolves the vote. Alive players who did
// not vote count as skips, and skip wins whenever it at least ties the top target.
// If resolving fails the meeting is reopened with its votes intact.
func (s *GameService) EndMeeting(ctx context.Context) (*model.MeetingResult, error) {
	claimed, err := s.sessions.SetMeetingActive(ctx, true, false)
	if err != nil {
		return nil, fmt.Errorf("failed to end meeting: %w", err)
	}
	if !claimed {
		return nil, ErrNoMeeting
	}

	result, err := s.resolveMeeting(ctx)
	if err != nil {
		if _, rerr := s.sessions.SetMeetingActive(ctx, false, true); rerr != nil {
			log.Printf("[Game] Meeting closed unresolved, reopen failed: %v", rerr)
		}
		return nil, err
	}

	if err := s.votes.Clear(ctx); err != nil {
		log.Printf("[Game] Failed to clear votes: %v", err)
	}
	return result, nil
}

func (s *GameService) resolveMeeting(ctx context.Context) (*model.MeetingResult, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	votes, err := s.votes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}

	result := tallyVotes(s.eligible(players), votes)
	if !result.Ejected {
		log.Printf("[Game] Meeting ended with no ejection (%d skips)", result.Skips)
		return result, nil
	}

	var former model.Role
	for _, p := range players {
		if p.Username == result.Username {
			former = p.Role
		}
	}
	ejected, err := s.players.CompareAndSetRole(ctx, result.Username, former, model.RoleDead)
	if err != nil {
		return nil, fmt.Errorf("failed to eject %s: %w", result.Username, err)
	}
	if !ejected {
		result.Ejected = false
		result.Message = fmt.Sprintf("%s was already eliminated", result.Username)
		result.Username = ""
		return result, nil
	}

	result.Role = former
	result.Message = fmt.Sprintf("%s was ejected. They were a %s", result.Username, former)
	log.Printf("[Game] %s ejected (%s)", result.Username, former)
	return result, nil
}

func (s *GameService) eligible(players []*model.Player) map[string]bool {
	alive := make(map[string]bool, len(players))
	for _, p := range players {
		if p.Role.Alive() && !s.playerSvc.IsAdmin(p.Username) {
			alive[p.Username] = true
		}
	}
	return alive
}

// tallyVotes counts one vote per alive player. Votes from dead players are
// ignored, votes for dead players count as skips. Equal top targets resolve
// to the alphabetically first name.
func tallyVotes(alive map[string]bool, votes []model.Vote) *model.MeetingResult {
	cast := make(map[string]string, len(votes))
	for _, v := range votes {
		if alive[v.VoterID] {
			cast[v.VoterID] = v.TargetID
		}
	}

	result := &model.MeetingResult{Tally: make(map[string]int)}
	for voter := range alive {
		target, voted := cast[voter]
		if !voted || target == "" || !alive[target] {
			result.Skips++
			continue
		}
		result.Tally[target]++
	}

	targets := make([]string, 0, len(result.Tally))
	for t := range result.Tally {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	top, maxVotes := "", 0
	for _, t := range targets {
		if result.Tally[t] > maxVotes {
			top, maxVotes = t, result.Tally[t]
		}
	}

	if top == "" || result.Skips >= maxVotes {
		result.Message = "No one was ejected"
		return result
	}
	result.Ejected = true
	result.Username = top
	return result
}

// CheckWin evaluates the win rule. The first poll that sees a winner pays
// the win bonus to every player holding the winning role.
func (s *GameService) CheckWin(ctx context.Context) (*model.WinStatus, error) {
	counts, err := s.players.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.taskSvc.CompletedCount(ctx)
	if err != nil {
		return nil, err
	}

	status := &model.WinStatus{
		Crewmates:      counts[model.RoleCrewmate],
		Imposters:      counts[model.RoleImposter],
		CompletedTasks: completed,
		TaskTarget:     session.TaskCompletionTarget,
	}

	var winner model.Winner
	switch {
	case status.Crewmates <= status.Imposters:
		winner = model.WinnerImposters
	case session.TaskCompletionTarget > 0 && completed >= session.TaskCompletionTarget:
		winner = model.WinnerCrewmates
	default:
		return status, nil
	}
	status.Winner = &winner

	claimed, err := s.sessions.ClaimWinnerAward(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to claim win bonus: %w", err)
	}
	if !claimed {
		return status, nil
	}

	role, ok := winner.Role()
	if !ok {
		return nil, fmt.Errorf("unknown winner %q", winner)
	}
	awarded, err := s.playerSvc.BulkAdjustScore(ctx, role, s.cfg.Rewards.WinBonus)
	if err != nil {
		// Nothing was paid, so the next poll may pay it
		if rerr := s.sessions.ReleaseWinnerAward(ctx); rerr != nil {
			log.Printf("[Game] %s win bonus lost: %v", winner, rerr)
		}
		return nil, err
	}
	status.BonusAwarded = true
	log.Printf("[Game] %s win, bonus paid to %d players", winner, len(awarded))
	return status, nil
}

// StartGame resets roles and deals a new round of tasks. Scores, locations
// and the meeting flag are left alone.
func (s *GameService) StartGame(ctx context.Context, tasksPerPlayer int) (*model.RoundStarted, error) {
	if tasksPerPlayer < 1 {
		return nil, ErrInvalidTasksPerPlayer
	}
	poolSize, err := s.taskSvc.PoolSize(ctx)
	if err != nil {
		return nil, err
	}
	if poolSize == 0 {
		return nil, ErrNoTasksInPool
	}

	if err := s.playerSvc.ResetAll(ctx); err != nil {
		return nil, err
	}
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	usernames := make([]string, 0, len(players))
	for _, p := range players {
		if !s.playerSvc.IsAdmin(p.Username) {
			usernames = append(usernames, p.Username)
		}
	}

	session, assigned, err := s.taskSvc.StartRound(ctx, usernames, tasksPerPlayer)
	if err != nil {
		return nil, err
	}

	log.Printf("[Game] Round %d started: %d players, %d tasks each, target %d",
		session.Round, len(usernames), tasksPerPlayer, session.TaskCompletionTarget)
	return &model.RoundStarted{
		Round:                session.Round,
		Players:              len(usernames),
		TasksPerPlayer:       tasksPerPlayer,
		Assignments:          assigned,
		TaskCompletionTarget: session.TaskCompletionTarget,
		Message:              "Game started",
	}, nil
}

// ConvertCrewmates promotes up to count random crewmates to imposter and
// returns the converted usernames
func (s *GameService) ConvertCrewmates(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	crewmates, err := s.players.ListByRole(ctx, model.RoleCrewmate)
	if err != nil {
		return nil, fmt.Errorf("failed to list crewmates: %w", err)
	}
	if len(crewmates) == 0 {
		return nil, ErrNoCrewmates
	}

	s.rng.Shuffle(len(crewmates), func(i, j int) {
		crewmates[i], crewmates[j] = crewmates[j], crewmates[i]
	})
	if count > len(crewmates) {
		count = len(crewmates)
	}

	converted := make([]string, 0, count)
	for _, p := range crewmates[:count] {
		ok, err := s.players.CompareAndSetRole(ctx, p.Username, model.RoleCrewmate, model.RoleImposter)
		if err != nil {
			return converted, fmt.Errorf("failed to convert %s: %w", p.Username, err)
		}
		if ok {
			converted = append(converted, p.Username)
		}
	}
	sort.Strings(converted)

	log.Printf("[Game] Converted %d crewmates to imposters", len(converted))
	return converted, nil
}

// GameStatus counts the players on each side, the admin excluded
func (s *GameService) GameStatus(ctx context.Context) (*model.GameStatus, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	status := &model.GameStatus{Round: session.Round}
	for _, p := range players {
		if s.playerSvc.IsAdmin(p.Username) {
			continue
		}
		switch p.Role {
		case model.RoleCrewmate:
			status.Crewmates++
		case model.RoleImposter:
			status.Imposters++
		case model.RoleDead:
			status.Dead++
		}
		status.Total++
	}
	return status, nil
}

// ClearScores resets every score to 0
func (s *GameService) ClearScores(ctx context.Context) error {
	if err := s.playerSvc.ClearScores(ctx); err != nil {
		return err
	}
	log.Println("[Game] Scores cleared")
	return nil
}

// ClearUsers deletes every player but the admin, with their locations and votes
func (s *GameService) ClearUsers(ctx context.Context) (int64, error) {
	deleted, err := s.playerSvc.ClearExcept(ctx)
	if err != nil {
		return deleted, err
	}
	if err := s.votes.Clear(ctx); err != nil {
		return deleted, fmt.Errorf("failed to clear votes: %w", err)
	}
	return deleted, nil
}
