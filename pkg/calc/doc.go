// Package calc evaluates flat arithmetic expressions.
//
// Expressions contain numbers and the operators + - * / and the postfix
// percent operator. Evaluation uses a single shunting-yard pass in which every
// operator is reduced as soon as an operator of lower or equal precedence
// arrives, so no intermediate RPN buffer is built.
//
//	v, err := calc.Evaluate("3 + 4 * 2") // 11
//	v, err = calc.Evaluate("50 %")       // 0.5
//	v, err = calc.Evaluate("8 / 0")      // +Inf, not an error
package calc
