package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/internal/platform"
)

// OrbitCamera circles a target point: right mouse drag rotates, the scroll
// wheel zooms and the arrow keys pan.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32 // degrees
	Pitch    float32 // degrees
	Fov      float32 // degrees

	lookSpeed  float32
	panSpeed   float32
	lastMouseX float64
	lastMouseY float64
	firstMouse bool
}

func NewOrbitCamera(target mgl32.Vec3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:     target,
		Distance:   distance,
		Pitch:      20,
		Fov:        45,
		lookSpeed:  0.3,
		panSpeed:   8,
		firstMouse: true,
	}
}

func (c *OrbitCamera) Zoom(steps float64) {
	c.Distance *= float32(math.Pow(0.9, steps))
	c.Distance = max(c.Distance, 1)
}

func (c *OrbitCamera) Update(window *platform.Window, deltaTime float32) {
	if window.IsMouseButtonPressed(platform.MouseButtonRight) {
		x, y := window.GetCursorPos()
		if c.firstMouse {
			c.lastMouseX, c.lastMouseY = x, y
			c.firstMouse = false
		}
		c.Yaw += float32(x-c.lastMouseX) * c.lookSpeed
		c.Pitch += float32(y-c.lastMouseY) * c.lookSpeed
		c.Pitch = min(max(c.Pitch, -89), 89)
		c.lastMouseX, c.lastMouseY = x, y
	} else {
		c.firstMouse = true
	}

	right, up := c.axes()
	step := c.panSpeed * deltaTime
	if window.IsKeyPressed(platform.KeyLeft) {
		c.Target = c.Target.Sub(right.Mul(step))
	}
	if window.IsKeyPressed(platform.KeyRight) {
		c.Target = c.Target.Add(right.Mul(step))
	}
	if window.IsKeyPressed(platform.KeyUp) {
		c.Target = c.Target.Add(up.Mul(step))
	}
	if window.IsKeyPressed(platform.KeyDown) {
		c.Target = c.Target.Sub(up.Mul(step))
	}
}

func (c *OrbitCamera) eye() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	offset := mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Cos(yaw) * math.Cos(pitch)),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *OrbitCamera) axes() (right, up mgl32.Vec3) {
	forward := c.Target.Sub(c.eye()).Normalize()
	right = forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up = right.Cross(forward)
	return right, up
}

func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) Projection(width, height int) mgl32.Mat4 {
	aspect := float32(width) / float32(max(height, 1))
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, 0.1, 1000)
}
