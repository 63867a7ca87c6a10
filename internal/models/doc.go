// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package models defines the normalized domain types shared across the
// service: media items, user viewing signals, taste profiles, and the
// search request/response shapes.
//
// Provider-specific payload shapes never leave the upstream client;
// everything downstream operates on the types in this package. Identity
// of a media item is always the (media type, id) pair because the
// provider's numeric id spaces are not guaranteed disjoint across
// media types.
package models
