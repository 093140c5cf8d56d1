package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"arm-control/kinematics"
	"arm-control/models"
	"arm-control/motion"
	"arm-control/utils"
)

// demoTargets is the canned trapezoidal pose used when a move request
// carries no explicit targets, matching the historical demo sweep.
var demoTargets = map[string]float64{
	"0": math.Pi / 3,
	"1": -math.Pi / 6,
	"2": math.Pi / 2,
	"3": -math.Pi / 4,
	"4": math.Pi / 6,
	"5": math.Pi / 4,
}

// APIHandler handles all API requests for the motion-control service.
type APIHandler struct {
	chain    *kinematics.Chain
	executor *motion.Executor
}

// NewAPIHandler creates a new instance of APIHandler.
func NewAPIHandler(chain *kinematics.Chain, executor *motion.Executor) *APIHandler {
	return &APIHandler{
		chain:    chain,
		executor: executor,
	}
}

// HealthCheck provides a simple health status of the service.
func (h *APIHandler) HealthCheck(c echo.Context) error {
	data := map[string]interface{}{
		"service":   "arm-control",
		"timestamp": utils.GetUnixTimestamp(),
	}
	return c.JSON(http.StatusOK, utils.SuccessResponse("Service is healthy", data))
}

// GetState returns the current robot state snapshot.
func (h *APIHandler) GetState(c echo.Context) error {
	snap := h.executor.State().Snapshot()
	return c.JSON(http.StatusOK, utils.SuccessResponse("Robot state retrieved successfully", snap))
}

// GetJoint returns a single joint's description and current angle,
// looked up by name. Unknown names are a 404.
func (h *APIHandler) GetJoint(c echo.Context) error {
	name := c.Param("name")
	for _, j := range h.chain.Joints() {
		if j.Name == name {
			data := map[string]interface{}{
				"joint":        j,
				"currentAngle": h.executor.State().Angles()[j.Index],
			}
			return c.JSON(http.StatusOK, utils.SuccessResponse("Joint retrieved successfully", data))
		}
	}
	return utils.NewNotFoundError(fmt.Sprintf("Unknown joint %q", name))
}

// GetChain returns the loaded kinematic chain description so clients can
// render the arm without a separate model file.
func (h *APIHandler) GetChain(c echo.Context) error {
	data := map[string]interface{}{
		"joints": h.chain.Joints(),
		"count":  models.JointCount,
	}
	return c.JSON(http.StatusOK, utils.SuccessResponse("Kinematic chain retrieved successfully", data))
}

type setJointsRequest struct {
	Angles []float64 `json:"angles"`
}

// SetJoints applies all six joint angles immediately, cancelling any
// running motion. Out-of-limit angles are clamped, not rejected.
func (h *APIHandler) SetJoints(c echo.Context) error {
	var req setJointsRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", err)
	}
	if len(req.Angles) != models.JointCount {
		return utils.NewBadRequestError("Expected exactly 6 joint angles")
	}
	var angles [models.JointCount]float64
	copy(angles[:], req.Angles)

	snap := h.executor.SetJointsDirect(angles)
	return c.JSON(http.StatusOK, utils.SuccessResponse("Joint angles applied", snap))
}

// StartMove validates a motion request and starts it asynchronously,
// cancelling any in-flight motion. Responds before the motion completes.
func (h *APIHandler) StartMove(c echo.Context) error {
	var req models.MotionRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", err)
	}
	if req.Type == "" {
		req.Type = models.ProfileSinusoidal
	}
	switch req.Type {
	case models.ProfileSinusoidal:
		// Bare requests run the demo sweep: one full 45-degree cycle
		// across all joints over ten seconds.
		if req.Amplitude == 0 {
			req.Amplitude = math.Pi / 4
		}
		if req.Duration == 0 {
			req.Duration = 10
		}
		if req.Frequency == 0 {
			req.Frequency = 2 * math.Pi / req.Duration
		}
	case models.ProfileTrapezoidal:
		if len(req.Targets) == 0 {
			req.Targets = demoTargets
		}
	}

	if err := h.executor.Execute(req); err != nil {
		return err
	}
	data := map[string]interface{}{
		"type": req.Type,
	}
	return c.JSON(http.StatusAccepted, utils.SuccessResponse("Motion started", data))
}
