package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/Endoctrine/nebula/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// List the host cpus available for rendering.
func ListDevices(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	report, err := deviceReport()
	if err != nil {
		return err
	}

	logger.Notice(report)
	return nil
}

func deviceReport() (string, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return "", err
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("\nSystem provides %d cpu package(s) and %d logical core(s):\n\n", len(cpuInfo), runtime.NumCPU()))

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"CPU", "Model", "Cores", "Speed"})
	for index, info := range cpuInfo {
		table.Append([]string{
			fmt.Sprintf("%02d", index),
			info.ModelName,
			fmt.Sprintf("%d", info.Cores),
			fmt.Sprintf("%3.1f GHz", info.Mhz/1000),
		})
	}
	table.SetFooter([]string{"", "", "WORKERS", fmt.Sprintf("%d", renderer.DefaultWorkerCount())})
	table.Render()

	buf.WriteString(fmt.Sprintf("\nMemory: %d MiB total, %d MiB available\n", memInfo.Total>>20, memInfo.Available>>20))
	return buf.String(), nil
}
