package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/workflow"
)

// reqCtx returns a context with the server's request timeout applied,
// so a stalled database operation cannot hang a connection forever.
func (s *Server) reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.requestTimeout)
}

func (s *Server) reqActor(req *Request) string {
	if req != nil && req.Actor != "" {
		return req.Actor
	}
	return "daemon"
}

func decodeArgs(req *Request, argsPtr any) error {
	if err := json.Unmarshal(req.Args, argsPtr); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handlePing(_ *Request) Response {
	return okResponse(PingResponse{Message: "pong", Version: ServerVersion})
}

func (s *Server) handleStatus(_ *Request) Response {
	return okResponse(StatusResponse{
		Version:       ServerVersion,
		DatabasePath:  s.dbPath,
		SocketPath:    s.socketPath,
		PID:           os.Getpid(),
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		ActiveConns:   atomic.LoadInt32(&s.activeConns),
		MaxConns:      s.maxConns,
	})
}

func (s *Server) handlePathCreate(req *Request) Response {
	var args PathCreateArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.CreatePath(ctx, library.CreatePathRequest{
		Title:                args.Title,
		GoalStatement:        args.GoalStatement,
		Priority:             types.Priority(args.Priority),
		Notes:                args.Notes,
		IssueID:              args.IssueID,
		RootCauseID:          args.RootCauseID,
		InitiativeID:         args.InitiativeID,
		OrganizationID:       args.OrganizationID,
		OwnerID:              args.OwnerID,
		TargetCompletionDate: args.TargetCompletionDate,
		Activate:             args.Activate,
	})
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handlePathShow(req *Request) Response {
	var args ShowArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.GetPath(ctx, args.ID)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handlePathList(req *Request) Response {
	var args ListArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	paths, err := s.lib.ListPaths(ctx, args.Filter)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(paths)
}

func (s *Server) handlePathUpdate(req *Request) Response {
	var args UpdateArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	upd := library.UpdateDetailsRequest{
		Title:                args.Title,
		GoalStatement:        args.GoalStatement,
		Notes:                args.Notes,
		OwnerID:              args.OwnerID,
		BaselineMetric:       args.BaselineMetric,
		CurrentMetric:        args.CurrentMetric,
		TargetCompletionDate: args.TargetCompletionDate,
		ClearTarget:          args.ClearTarget,
	}
	if args.Priority != nil {
		prio := types.Priority(*args.Priority)
		upd.Priority = &prio
	}
	p, err := s.lib.UpdateDetails(ctx, args.ID, upd)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handlePathDelete(req *Request) Response {
	var args DeleteArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	if err := s.lib.DeletePath(ctx, args.ID); err != nil {
		return errResponse(err)
	}
	return okResponse(map[string]string{"deleted": args.ID})
}

func (s *Server) handlePathStatus(req *Request) Response {
	var args StatusArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.TransitionStatus(ctx, args.ID, workflow.Request{
		NewStatus:           types.PathStatus(args.NewStatus),
		OnHoldReason:        args.OnHoldReason,
		CompletionLearnings: args.CompletionLearnings,
	})
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handlePhaseAdd(req *Request) Response {
	var args PhaseAddArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.AddPhase(ctx, args.PathID, args.Name, args.Description)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleStepAdd(req *Request) Response {
	var args StepAddArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.AddStep(ctx, args.PathID, args.PhaseID, args.Name, args.Description)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleItemAdd(req *Request) Response {
	var args ItemAddArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.AddItem(ctx, args.PathID, args.StepID, library.AddItemRequest{
		Title:        args.Title,
		DueDate:      args.DueDate,
		AssigneeID:   args.AssigneeID,
		AssigneeName: args.AssigneeName,
		Notes:        args.Notes,
	})
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleItemStatus(req *Request) Response {
	var args ItemStatusArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.UpdateItemStatus(ctx, args.PathID, args.ItemID, types.ItemStatus(args.Status))
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleItemAssign(req *Request) Response {
	var args ItemAssignArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.AssignItem(ctx, args.PathID, args.ItemID, args.AssigneeID, args.AssigneeName)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleItemDue(req *Request) Response {
	var args ItemDueArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.SetItemDueDate(ctx, args.PathID, args.ItemID, args.DueDate)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleItemRemove(req *Request) Response {
	var args ItemRemoveArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	p, err := s.lib.RemoveItem(ctx, args.PathID, args.ItemID)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(p)
}

func (s *Server) handleCommentAdd(req *Request) Response {
	var args CommentAddArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	author := args.Author
	if author == "" {
		author = s.reqActor(req)
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	c, err := s.lib.AddComment(ctx, args.PathID, author, args.Content)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(c)
}

func (s *Server) handleCommentList(req *Request) Response {
	var args CommentListArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	comments, err := s.lib.GetComments(ctx, args.PathID)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(comments)
}

func (s *Server) handleStats(req *Request) Response {
	var args StatsArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	stats, err := s.lib.Statistics(ctx, args.Filter)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(stats)
}

func (s *Server) handleAsk(req *Request) Response {
	var args AskArgs
	if err := decodeArgs(req, &args); err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	ctx, cancel := s.reqCtx()
	defer cancel()
	ans, err := s.lib.Ask(ctx, args.PathID, args.Query)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(ans)
}
