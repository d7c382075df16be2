// Copyright 2025 Poiesic Systems
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


// Package config loads per-tenant ranking configuration from YAML.
//
// A tenant file only needs to name the values it overrides: the loader
// starts from the documented defaults and unmarshals the file on top,
// so an empty file is a fully valid moderate-tier tenant. Validation
// happens once at load time; the typed accessor methods hand validated
// configs to the scoring, fusion and guardrail packages.
package config
