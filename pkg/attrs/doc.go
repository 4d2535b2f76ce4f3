// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package attrs models span attribute data and rebuilds nested trees from the
// flat dotted paths instrumentation layers record.
//
// Instrumentors flatten structured LLM payloads into dotted keys such as
// "llm.tools.0.name" before attaching them to a span. SetNested and
// Deserialize invert that flattening: numeric path segments become sequence
// indices, everything else becomes mapping keys.
//
// All data moving through reconstruction and flattening is a Value, a tagged
// variant over null, scalar, sequence, and mapping. This keeps shape handling
// in explicit type switches rather than reflection over arbitrary interfaces.
package attrs
