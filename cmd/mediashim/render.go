package main

import (
	"github.com/pion/mediashim/pkg/gfx"
	_ "github.com/pion/mediashim/pkg/gfx/softgl"
	"github.com/spf13/cobra"
)

const (
	vertexSource = `
@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 1.0);
}
`
	fragmentSource = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`
)

var triangle = gfx.AttributeSetting{
	Data: []float32{
		0.0, 0.8, 0.0,
		-0.8, -0.8, 0.0,
		0.8, -0.8, 0.0,
	},
	Size: 3,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a triangle with the software backend",
	RunE: func(*cobra.Command, []string) error {
		ctx, err := gfx.New(cfg.GetInt("width"), cfg.GetInt("height"), "render")
		if err != nil {
			return err
		}
		defer ctx.Close()

		if err := ctx.Init(); err != nil {
			return err
		}

		vs, err := ctx.CreateShader(vertexSource, "vs", gfx.VertexShader)
		if err != nil {
			return err
		}
		fs, err := ctx.CreateShader(fragmentSource, "fs", gfx.FragmentShader)
		if err != nil {
			return err
		}
		p, err := ctx.CreateProgram(vs, fs)
		if err != nil {
			return err
		}

		if err := ctx.SetAttribute(triangle, 0); err != nil {
			return err
		}
		identity := [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}
		if err := ctx.DrawObject(ctx.UniformLocation(p, "mvp"), identity, len(triangle.Data), triangle.Size); err != nil {
			return err
		}
		if err := ctx.Flush(); err != nil {
			return err
		}

		return writePNG(cfg.GetString("out"), ctx.Surface().Pixels())
	},
}
