package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"energy-tools/internal/logger"
	"energy-tools/internal/models"
)

// Operation names understood by the bridge script.
const (
	opPing                  = "ping"
	opLoadInfrastructure    = "load_power_infrastructure"
	opProximity             = "compute_proximity"
	opServiceLines          = "compute_service_lines_street_following"
	opPowerFeasibility      = "compute_power_feasibility"
	opVisualize             = "visualize"
	opNetworkLoadData       = "dual_pipe.load_data"
	opNetworkCreate         = "dual_pipe.create_complete_dual_pipe_network"
	opNetworkInteractiveMap = "dual_pipe.create_dual_pipe_interactive_map"
)

// ErrTimeout is returned when a call exceeds the configured timeout.
var ErrTimeout = errors.New("collaborator call timed out")

// CallError is a failure reported by the collaborator itself.
type CallError struct {
	Op      string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("collaborator %s: %s", e.Op, e.Message)
}

// Options configures the external process.
type Options struct {
	Command string        // interpreter, e.g. python3
	Script  string        // bridge script passed as first argument
	Dir     string        // working directory, empty for the current one
	Timeout time.Duration // per call, zero for none
	Logger  *logger.Logger
}

// Bridge runs one collaborator process per call. The request is written to
// stdin as {"op": ..., "args": ...}; the process answers on stdout with
// {"ok": bool, "result": ..., "error": "..."}.
type Bridge struct {
	opts Options
	log  *logger.Logger
}

func NewBridge(opts Options) *Bridge {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Bridge{opts: opts, log: log}
}

type request struct {
	Op   string `json:"op"`
	Args any    `json:"args,omitempty"`
}

type response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (b *Bridge) call(ctx context.Context, op string, args, out any) error {
	if b.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(request{Op: op, Args: args})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	argv := []string{}
	if b.opts.Script != "" {
		argv = append(argv, b.opts.Script)
	}
	cmd := exec.CommandContext(ctx, b.opts.Command, argv...)
	cmd.Dir = b.opts.Dir
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	b.log.Debug("collaborator call",
		zap.String("op", op),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Error(runErr),
	)

	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", op, ErrTimeout)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %s", op, runErr, tail(stderr.String(), 512))
	}

	var resp response
	if err := json.Unmarshal(sanitizeNonFinite(stdout.Bytes()), &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if !resp.OK {
		return &CallError{Op: op, Message: resp.Error}
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", op, err)
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Ping checks that the process starts and answers.
func (b *Bridge) Ping(ctx context.Context) error {
	return b.call(ctx, opPing, nil, nil)
}

func (b *Bridge) LoadPowerInfrastructure(ctx context.Context) (*Infrastructure, error) {
	var infra Infrastructure
	if err := b.call(ctx, opLoadInfrastructure, nil, &infra); err != nil {
		return nil, err
	}
	return &infra, nil
}

type proximityResult struct {
	Buildings map[string]models.Proximity `json:"buildings"`
}

func (b *Bridge) ComputeProximity(ctx context.Context, a Analysis) (map[string]models.Proximity, error) {
	var res proximityResult
	if err := b.call(ctx, opProximity, a, &res); err != nil {
		return nil, err
	}
	return res.Buildings, nil
}

func (b *Bridge) ComputeServiceLinesStreetFollowing(ctx context.Context, req ServiceLineRequest) (ServiceLines, error) {
	var res ServiceLines
	err := b.call(ctx, opServiceLines, req, &res)
	return res, err
}

type powerResult struct {
	Buildings map[string]models.PowerMetrics `json:"buildings"`
}

func (b *Bridge) ComputePowerFeasibility(ctx context.Context, req PowerRequest) (map[string]models.PowerMetrics, error) {
	var res powerResult
	if err := b.call(ctx, opPowerFeasibility, req, &res); err != nil {
		return nil, err
	}
	return res.Buildings, nil
}

type pathResult struct {
	Path string `json:"path"`
}

func (b *Bridge) Visualize(ctx context.Context, req VisualizeRequest) (string, error) {
	var res pathResult
	if err := b.call(ctx, opVisualize, req, &res); err != nil {
		return "", err
	}
	return res.Path, nil
}

func (b *Bridge) DualPipeNetwork(req NetworkRequest) DualPipeNetwork {
	return &bridgeNetwork{b: b, req: req}
}

// bridgeNetwork keeps no state between calls; the collaborator persists its
// intermediate results under ResultsDir.
type bridgeNetwork struct {
	b   *Bridge
	req NetworkRequest
}

func (n *bridgeNetwork) LoadData(ctx context.Context) error {
	return n.b.call(ctx, opNetworkLoadData, n.req, nil)
}

func (n *bridgeNetwork) CreateCompleteDualPipeNetwork(ctx context.Context) error {
	return n.b.call(ctx, opNetworkCreate, n.req, nil)
}

func (n *bridgeNetwork) CreateDualPipeInteractiveMap(ctx context.Context) (string, error) {
	var res pathResult
	if err := n.b.call(ctx, opNetworkInteractiveMap, n.req, &res); err != nil {
		return "", err
	}
	return res.Path, nil
}
