/*

Process of compilation

Program Text ->
	lex ->
Token Sequence (lex) ->
	parse ->
Abstract Syntax Tree (parse) ->
	analyze ->
Symbol Table (analyze) ->
	compile ->
Assembly Intermediate Representation (air) ->
	run ->
Yielded Values (vm)

*/
package compiler
