// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package passport implements the verification-token lifecycle: identifiers
// are hashed into stable lookup keys, each key holds one live token, tokens
// expire after a short window and are silently re-minted on the issuing path,
// and issued tokens can be rendered as QR codes pointing at a validation URL.
package passport
