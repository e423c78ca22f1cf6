// Package adb invokes the device-bridge executable that the installer
// puts in place. Every reading the monitor takes goes through one of
// these subprocess calls.
package adb

import (
	"context"
	"os/exec"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"battlog/pkg/battery"
)

type Client struct {
	// Path to the adb executable, typically "./adb" next to the binary.
	Path string
}

func New(path string) *Client {
	return &Client{Path: path}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, c.Path, args...).Output()
	if err != nil {
		return "", pkgerrors.Wrapf(err, "%s %s failed", c.Path, strings.Join(args, " "))
	}

	s := strings.TrimSpace(string(out))
	if s == "" {
		return "", pkgerrors.Errorf("%s %s produced no output, is a device connected?", c.Path, strings.Join(args, " "))
	}

	return s, nil
}

// BatteryDump returns the raw `dumpsys battery` output.
func (c *Client) BatteryDump(ctx context.Context) (string, error) {
	return c.run(ctx, "shell", "dumpsys", "battery")
}

// ThermalDump returns the raw `dumpsys thermalservice` output.
func (c *Client) ThermalDump(ctx context.Context) (string, error) {
	return c.run(ctx, "shell", "dumpsys", "thermalservice")
}

// Model returns the product model of the connected device.
func (c *Client) Model(ctx context.Context) (string, error) {
	return c.run(ctx, "shell", "getprop", "ro.product.model")
}

// Serial returns the serial number of the connected device.
func (c *Client) Serial(ctx context.Context) (string, error) {
	return c.run(ctx, "get-serialno")
}

// Sample takes one battery reading. It implements monitor.Sampler.
func (c *Client) Sample(ctx context.Context) (battery.Sample, error) {
	out, err := c.BatteryDump(ctx)
	if err != nil {
		return battery.Sample{}, err
	}

	s := battery.ParseDump(out)
	s.Time = time.Now()

	return s, nil
}

// Thermal reads the device thermal sensors. It implements
// monitor.ThermalSampler.
func (c *Client) Thermal(ctx context.Context) (map[string]float64, error) {
	out, err := c.ThermalDump(ctx)
	if err != nil {
		return nil, err
	}

	return battery.ParseThermal(out), nil
}
