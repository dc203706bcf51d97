package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

type parseCmd struct {
	Chart parseChartCmd `cmd:"" help:"Parse chart text such as 'Jan,Feb|Sales:10,20'."`
	Table parseTableCmd `cmd:"" help:"Parse table text: a header line followed by comma separated rows."`
}

type parseInput struct {
	Text   string `arg:"" optional:"" help:"Text to parse. Reads stdin when omitted."`
	Format string `enum:"json,yaml" default:"json" help:"Output format (json, yaml)."`
}

func (in parseInput) read(stdin io.Reader) (string, error) {
	if in.Text != "" {
		return in.Text, nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("builder: read stdin: %w", err)
	}
	return strings.TrimRight(string(raw), "\n"), nil
}

type parseChartCmd struct {
	parseInput
}

func (cmd *parseChartCmd) Run() error {
	text, err := cmd.read(os.Stdin)
	if err != nil {
		return err
	}
	data := builder.ParseChartData(text)
	if data == nil {
		return errors.New("builder: chart text must look like 'L1,L2|Series:v1,v2' with one value per label")
	}
	return encode(os.Stdout, cmd.Format, data)
}

type parseTableCmd struct {
	parseInput
}

func (cmd *parseTableCmd) Run() error {
	text, err := cmd.read(os.Stdin)
	if err != nil {
		return err
	}
	data := builder.ParseTableData(text)
	if data == nil {
		return errors.New("builder: table text needs a header line and at least one row")
	}
	return encode(os.Stdout, cmd.Format, data)
}
