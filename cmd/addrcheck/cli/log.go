// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// SetupLogger installs a charm logger writing to w as the slog default.
func SetupLogger(cfg LogConfig, w io.Writer) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}

	log.SetDefault(logger)
	slog.SetDefault(slog.New(logger))

	return logger
}
