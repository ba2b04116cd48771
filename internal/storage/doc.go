/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists Dimensio projects as .dio files (pretty-printed
// JSON) and keeps a per-user recent-projects history in an embedded SQLite
// database. Writes are transactional (temp file + rename) and the previous
// file is kept as a .bak sibling, so a failed save never corrupts a project.
package storage
