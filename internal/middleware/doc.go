// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package middleware provides HTTP middleware: request ID propagation,
// Prometheus instrumentation, and response compression.
package middleware
