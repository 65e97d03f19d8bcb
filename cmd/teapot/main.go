// teapot - Terminal Environment-Mapped Model Viewer
// Renders an OBJ model inside a cubemap skybox in your terminal.
//
// Controls:
//
//	Arrows  - Rotate model (5° per press)
//	1/2/3   - Phong / mirror / glass shading
//	M       - Cycle shading mode
//	R       - Reset rotation
//	B       - Toggle backface culling
//	?       - Toggle HUD overlay
//	Q/Esc   - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/teapot/assets"
	"github.com/taigrr/teapot/internal/config"
	"github.com/taigrr/teapot/internal/logger"
	"github.com/taigrr/teapot/internal/remote"
	"github.com/taigrr/teapot/internal/viewer"
	"github.com/taigrr/teapot/pkg/loader"
	"github.com/taigrr/teapot/pkg/models"
)

var version = "dev"

func main() {
	cmd := &cobra.Command{
		Use:   "teapot [model.obj]",
		Short: "Terminal environment-mapped model viewer",
		Long: `teapot - Terminal Environment-Mapped Model Viewer

Renders an OBJ model inside a cubemap skybox with Phong, mirror or glass
shading. Models and cube faces may be files, http(s) URLs or built-in
res: resources. With no model the built-in torus is shown.

Controls:
  Arrows  - Rotate model
  1/2/3   - Phong / mirror / glass
  M       - Cycle shading mode
  R       - Reset rotation
  B       - Toggle backface culling
  ?       - Toggle HUD overlay
  Q/Esc   - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: runViewer,
	}
	config.RegisterFlags(cmd.PersistentFlags())

	infoCmd := &cobra.Command{
		Use:   "info <model.obj>",
		Short: "Display model information",
		Long:  "Parse a model and print its vertex count, triangle count and bounding box.",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [model.obj]",
		Short: "Render one frame to a PNG",
		Long: `Load the model and cube faces, render a single frame and write it as PNG.
Resources that have not arrived before --timeout are left out, so a missing
model still produces an image of the skybox.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSnapshot,
	}
	snapshotCmd.Flags().StringP("output", "o", "teapot.png", "output PNG path")
	snapshotCmd.Flags().Int("width", 320, "image width in pixels")
	snapshotCmd.Flags().Int("height", 240, "image height in pixels")
	snapshotCmd.Flags().Duration("timeout", 10*time.Second, "how long to wait for loading")
	snapshotCmd.Flags().Float64("yaw", 0, "model yaw in degrees")
	snapshotCmd.Flags().Float64("pitch", 0, "model pitch in degrees")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
	configCmd.Flags().String("write", "", "also save the configuration to this path")

	cmd.AddCommand(infoCmd, snapshotCmd, configCmd)

	if err := fang.Execute(context.Background(), cmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, flags and the optional model
// argument.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load(config.ConfigPath(flags), flags)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}
	return cfg, nil
}

func fileLogging(cfg *config.Config) logger.FileConfig {
	if cfg.Logging.File == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(cfg.Logging.File)
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	// The terminal owns stdout while the viewer runs; logs go to the file only.
	if err := logger.InitWithOptions(logger.Options{Level: cfg.Logging.Level, File: fileLogging(cfg)}); err != nil {
		return err
	}
	defer logger.Sync()
	logger.Debug("starting viewer", zap.String("model", cfg.Model), zap.Int("fps", cfg.View.FPS))

	term := uv.NewTerminal(os.Stdin, os.Stdout, os.Environ())
	if err := term.Start(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = term.Shutdown(ctx)
	}()

	size := term.Size()
	sess, err := viewer.NewSession(cfg, size.Width, size.Height*2,
		viewer.WithLogger(logger.Log),
		viewer.WithResources(assets.FS),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var srv *remote.Server
	if cfg.Remote.Listen != "" {
		srv = remote.NewServer(logger.Named("remote"), 64)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Remote.Listen); err != nil {
				logger.Error("remote control stopped", zap.Error(err))
			}
		}()
	}

	sess.StartLoading(ctx)
	return viewer.NewLoop(sess, term, srv, cfg.View.FPS, logger.Named("viewer")).Run(ctx)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := logger.InitWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		File:    fileLogging(cfg),
		Console: os.Stderr,
	}); err != nil {
		return err
	}
	defer logger.Sync()

	out, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	yaw, _ := cmd.Flags().GetFloat64("yaw")
	pitch, _ := cmd.Flags().GetFloat64("pitch")

	sess, err := viewer.NewSession(cfg, width, height,
		viewer.WithLogger(logger.Log),
		viewer.WithResources(assets.FS),
	)
	if err != nil {
		return err
	}
	sess.Scene.Camera.Turn(yaw, pitch)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	stats, err := sess.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !stats.MeshDrawn {
		logger.Warn("snapshot has no model", zap.String("model", cfg.Model))
	}

	if err := sess.Renderer.Framebuffer().SavePNG(out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("snapshot written", zap.String("path", out), zap.Uint64("frame", stats.Frame))
	fmt.Printf("Wrote %s (%dx%d): %s, %s\n", out, width, height, sess.Scene.Mesh, stats)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	src := args[0]
	l := loader.New(loader.WithResources(assets.FS))

	res := <-l.FetchText(cmd.Context(), src)
	if res.Err != nil {
		return res.Err
	}
	mesh, err := models.ParseOBJ(res.Text, path.Base(src))
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	size := mesh.Size()
	center := mesh.Center()

	fmt.Printf("Source:     %s\n", src)
	fmt.Printf("Format:     %s\n", strings.ToUpper(strings.TrimPrefix(path.Ext(src), ".")))
	fmt.Printf("Size:       %.2f KB\n", float64(len(res.Text))/1024)
	fmt.Println()
	fmt.Printf("Vertices:   %d\n", mesh.VertexCount())
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Println()
	fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Printf("Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Printf("Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	if out, _ := cmd.Flags().GetString("write"); out != "" {
		if err := cfg.SaveTo(out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", out)
	}
	return nil
}
