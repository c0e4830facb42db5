// Package lang implements a small lazily evaluated expression language.
//
// Source text is split into tokens by [Tokenize], parsed into a [Program] by
// [Parse], and executed by an [Interpreter]. Evaluation is call-by-need:
// let bindings and function arguments are wrapped in thunks that are
// evaluated at most once, on first use.
//
// # Grammar
//
// Informal EBNF, loosest binding first:
//
//	Program     → Statement* EOF
//	Statement   → 'let' Ident '=' Expr ';'
//	            | ('console.log' | 'inspect.expanded') '(' Expr ')' ';'
//	Expr        → Or ('?' Expr ':' Expr)?
//	Or          → And ('||' And)*
//	And         → Equality ('&&' Equality)*
//	Equality    → Relational (('===' | '!==') Relational)*
//	Relational  → Additive (('<' | '<=' | '>' | '>=') Additive)*
//	Additive    → Mult (('+' | '-') Mult)*
//	Mult        → Unary (('*' | '/' | '%') Unary)*
//	Unary       → ('!' | '-') Unary | Postfix
//	Postfix     → Primary ('(' Expr ')')*
//	Primary     → Number | String | 'true' | 'false'
//	            | Ident '=>' Expr | '(' Ident ')' '=>' Expr
//	            | Ident | '(' Expr ')'
//
// Functions take exactly one parameter; currying expresses the rest.
//
// # Example
//
//	let S = x => y => z => x(z)(y(z));
//	let K = x => y => x;
//	let I = S(K)(K);
//	console.log(I(42));          // 42
//	inspect.expanded(I);         // S(K)(K)
//
// # Errors
//
// Every failure is an *[Error] whose [Error.Kind] tells the stage that
// raised it and whose position and source let callers point at the
// offending text.
package lang
