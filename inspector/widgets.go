package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/vec"
)

// Widget colors
var (
	ColorBarBg        = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill      = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow       = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText         = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim      = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorVectorBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorVectorNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn       = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff      = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value interface{}, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal progress bar.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := min(max(value/GetMax(options), 0), 1)

	barWidth := int32(120)
	barHeight := int32(14)

	// Label
	rl.DrawText(name, x, y, 14, ColorTextDim)

	// Bar background
	barX := x + 140
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	// Bar fill
	fillColor := ColorBarFill
	if ratio < 0.3 {
		fillColor = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fillColor)

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return 18
}

// DrawVector renders a compass needle along v with its components and
// magnitude. Tank y grows upwards, so the needle is flipped for the screen.
func DrawVector(x, y int32, name string, v vec.Vec2) int32 {
	size := int32(32)
	centerX := x + 140 + size/2
	centerY := y + size/2

	// Label
	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)

	// Circle background
	rl.DrawCircle(centerX, centerY, float32(size/2), ColorVectorBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), ColorTextDim)

	// Needle
	if m := v.Magnitude(); m > 0 {
		needleLen := float64(size/2 - 4)
		endX := float32(centerX) + float32(needleLen*v.X/m)
		endY := float32(centerY) - float32(needleLen*v.Y/m)
		rl.DrawLineEx(
			rl.Vector2{X: float32(centerX), Y: float32(centerY)},
			rl.Vector2{X: endX, Y: endY},
			2,
			ColorVectorNeedle,
		)
	}

	text := fmt.Sprintf("%s |%.1f|", FormatValue(v, ""), v.Magnitude())
	rl.DrawText(text, x+140+size+5, y+size/2-7, 12, ColorTextDim)

	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	// Label
	rl.DrawText(name, x, y, 14, ColorTextDim)

	// Indicator
	indicatorX := x + 140
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "NO"
	if value {
		color = ColorBoolOn
		text = "YES"
	}

	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
		return DrawLabel(x, y, field.Name, field.Value, field.Options)

	case WidgetVector:
		if v, ok := field.Value.(vec.Vec2); ok {
			return DrawVector(x, y, field.Name, v)
		}
		return DrawLabel(x, y, field.Name, field.Value, field.Options)

	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
		return DrawLabel(x, y, field.Name, field.Value, field.Options)

	default:
		return DrawLabel(x, y, field.Name, field.Value, field.Options)
	}
}

// fieldHeight returns the vertical space DrawField uses for f.
func fieldHeight(f Field) int32 {
	if f.Widget == WidgetVector {
		if _, ok := f.Value.(vec.Vec2); ok {
			return 36
		}
	}
	return 18
}
