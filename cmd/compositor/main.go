// Command compositor wires the presentation loop, the GPU context, the
// scene graph/seat, and the wire protocol listener into one running
// process: the "ambient process wiring" layer around the core packages.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/gocompose/wm/drm"
	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/gpu/swrender"
	"github.com/gocompose/wm/gpu/vulkan"
	"github.com/gocompose/wm/runtime"
	"github.com/gocompose/wm/scene"
	"github.com/gocompose/wm/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "compositor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cardPath := flag.String("card", "/dev/dri/card0", "DRM device to drive")
	socketPath := flag.String("socket", "/tmp/compositor-0", "wire protocol listen socket")
	renderNode := flag.String("render-node", "", "preferred Vulkan render node (empty: first match)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gpu.SetLogger(logger)

	loop, err := runtime.New()
	if err != nil {
		return fmt.Errorf("starting runtime loop: %w", err)
	}
	defer loop.Stop()

	ctx, ctxCleanup, err := openGPUContext(*renderNode, logger)
	if err != nil {
		return fmt.Errorf("opening gpu context: %w", err)
	}
	defer ctxCleanup()

	master, err := drm.OpenKernelMaster(*cardPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *cardPath, err)
	}
	defer master.Close()

	connectors, err := master.DiscoverConnectors()
	if err != nil {
		return fmt.Errorf("discovering connectors: %w", err)
	}
	if len(connectors) == 0 {
		return fmt.Errorf("no connected displays on %s", *cardPath)
	}
	logger.Info("discovered connectors", "count", len(connectors))

	graph := scene.NewGraph()
	seat := scene.NewSeat("seat0")

	presenters := make([]*drm.Presenter, 0, len(connectors))
	for _, conn := range connectors {
		screen := gpu.Rect{X: 0, Y: 0, W: int32(conn.Primary.ModeW), H: int32(conn.Primary.ModeH)}
		output := scene.NewOutput(graph.AllocID(), scene.Rect{X: 0, Y: 0, W: float64(screen.W), H: float64(screen.H)})
		graph.AddOutput(output)

		fb, err := ctx.CreateFB(conn.Primary.ModeW, conn.Primary.ModeH, conn.Primary.ModeW*4, gpu.FourCCXRGB8888)
		if err != nil {
			return fmt.Errorf("creating ring-buffer framebuffer for %s: %w", conn.KernelID, err)
		}
		presenters = append(presenters, drm.NewPresenter(conn, master, newOutputSource(output, fb), screen))
	}

	pumpPageFlipEvents(loop, master, presenters, logger)

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: *socketPath, Net: "unix"})
	if err != nil {
		return fmt.Errorf("listening on %s: %w", *socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(*socketPath)
	logger.Info("listening for clients", "socket", *socketPath)

	acceptClients(loop, listener, seat, logger)

	for _, p := range presenters {
		loop.AfterFunc(0, presentTick(loop, p, logger))
	}

	for {
		if err := loop.RunOnce(); err != nil {
			return fmt.Errorf("runtime loop: %w", err)
		}
	}
}

// presentTick drives one connector's present loop and reschedules itself,
// the single ordered phase spec §4.8 allows present to requeue within.
func presentTick(loop *runtime.Loop, p *drm.Presenter, logger *slog.Logger) func() {
	var tick func()
	tick = func() {
		if err := p.PresentOnce(false); err != nil {
			logger.Error("present failed", "error", err)
		}
		loop.AfterFunc(16*time.Millisecond, tick)
	}
	return tick
}

// pumpPageFlipEvents runs master.ReadEvents (a blocking read on the DRM
// fd) on its own goroutine and hands each batch of page-flip-complete tags
// back to the loop via PostCompletion, the only thread-safe entry point
// into Loop state — matching runtime.Trigger's "workers complete through
// PostCompletion, never by touching loop state directly" contract.
func pumpPageFlipEvents(loop *runtime.Loop, master *drm.KernelMaster, presenters []*drm.Presenter, logger *slog.Logger) {
	go func() {
		for {
			tags, err := master.ReadEvents()
			if err != nil {
				loop.PostCompletion(func() { logger.Error("reading DRM events", "error", err) })
				return
			}
			loop.PostCompletion(func() {
				if len(tags) == 0 {
					return
				}
				for _, p := range presenters {
					p.OnPageFlipComplete()
				}
			})
		}
	}()
}

// acceptClients runs listener.AcceptUnix (blocking) on its own goroutine
// and hands each accepted connection to the loop via PostCompletion,
// keeping every scene-graph/seat mutation on the loop's own goroutine
// (spec §5).
func acceptClients(loop *runtime.Loop, listener *net.UnixListener, seat *scene.Seat, logger *slog.Logger) {
	go func() {
		for {
			conn, err := listener.AcceptUnix()
			if err != nil {
				loop.PostCompletion(func() { logger.Info("client listener stopped", "error", err) })
				return
			}
			loop.PostCompletion(func() { handleClient(loop, conn, seat, logger) })
		}
	}()
}

// handleClient wraps a newly accepted connection in a wire.Conn and pumps
// its messages back onto the loop's input phase via a dedicated reader
// goroutine; decoding a message into a concrete request and routing it to
// the scene graph/seat is per-interface (wire/surface.go et al.) dispatch
// a full protocol server builds on top of these primitives.
func handleClient(loop *runtime.Loop, conn *net.UnixConn, seat *scene.Seat, logger *slog.Logger) {
	wc := wire.NewConn(conn)
	go func() {
		for {
			object, opcode, body, fds, err := wc.ReadMessage()
			if err != nil {
				loop.PostCompletion(func() { logger.Debug("client connection closed", "error", err) })
				wc.Close()
				return
			}
			loop.PostCompletion(func() {
				loop.Schedule(runtime.PhaseInput, func() { dispatchRequest(seat, object, opcode, body, fds) })
			})
		}
	}()
}

// dispatchRequest is where a concrete request type would be decoded
// (wire.DecodeSurfaceAttach et al.) and routed to the node it targets;
// left as the seam this wiring layer hands off to, since the object-to-
// node registry is the protocol server's responsibility, not the core's.
func dispatchRequest(seat *scene.Seat, object wire.ObjectID, opcode uint16, body []byte, fds []int) {
}

// openGPUContext opens the Vulkan backend, falling back to the pure-Go
// software renderer if no Vulkan device is available (spec §1: "a minimal
// software rendering path is in scope for testability").
func openGPUContext(renderNode string, logger *slog.Logger) (gpu.Context, func(), error) {
	vkCtx, err := vulkan.NewContext(vulkan.Options{AppName: "compositor", PreferredRenderNode: renderNode})
	if err == nil {
		return vkCtx, func() { vkCtx.Close() }, nil
	}
	logger.Warn("vulkan context unavailable, falling back to software rendering", "error", err)
	swCtx := swrender.NewContext()
	return swCtx, func() { swCtx.Close() }, nil
}
