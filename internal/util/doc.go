// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the docuchat application.
//
// This package contains common helper functions used throughout the
// application for string manipulation and display formatting.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//
// Display Formatting:
//   - FormatFileSize: human-readable byte counts for the sidebar
package util
