// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package bril contains the data model of Bril programs and their JSON encoding.

A Bril program is a list of functions, and each function is a flat list of instructions. An [Instruction] is either a
label, when it has a label field, or an operation, when it has an op field. Operations that transfer control (jmp, br
and ret) are terminators; jmp and br name their targets in their labels field.

Use [LoadProgram] to read a program from a file, or from the standard input when the file name is "-", and
[WriteProgram] to write it back.
*/
package bril
