package expr_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Bogdan-Zinovij/pzks/expr"
)

var _ = Describe("Parse", func() {
	It("should respect precedence and left associativity", func() {
		tree, err := expr.Parse("a-b-c*d/e")

		Expect(err).NotTo(HaveOccurred())
		Expect(tree.String()).To(Equal("((a-b)-((c*d)/e))"))
	})

	It("should honor parentheses", func() {
		tree, err := expr.Parse("((a+b)+(c-d))+((e*f)+(g/h))")

		Expect(err).NotTo(HaveOccurred())
		Expect(tree.String()).To(Equal("(((a+b)+(c-d))+((e*f)+(g/h)))"))
		Expect(tree.Depth()).To(Equal(4))
	})

	It("should accept numbers and identifiers with digits", func() {
		tree, err := expr.Parse(" x_1 * 4.75 ")

		Expect(err).NotTo(HaveOccurred())
		Expect(tree.Left.Value).To(Equal("x_1"))
		Expect(tree.Right.Value).To(Equal("4.75"))
	})

	It("should accept a single operand", func() {
		tree, err := expr.Parse("a")

		Expect(err).NotTo(HaveOccurred())
		Expect(tree.IsLeaf()).To(BeTrue())
	})

	DescribeTable("malformed expressions",
		func(expression string) {
			_, err := expr.Parse(expression)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("invalid expression"))
		},
		Entry("empty", ""),
		Entry("trailing operator", "a+"),
		Entry("leading operator", "-a"),
		Entry("double operator", "a+*b"),
		Entry("missing operator", "a b"),
		Entry("unmatched close", "a+b)"),
		Entry("unclosed open", "(a+b"),
		Entry("empty parens", "()"),
		Entry("operand before paren", "a(b)"),
		Entry("bad character", "a+$"),
		Entry("digit-led identifier", "2a+b"),
	)

	It("should report the position of the error", func() {
		_, err := expr.Parse("a+*b")

		var syntaxErr *expr.SyntaxError
		Expect(errors.As(err, &syntaxErr)).To(BeTrue())
		Expect(syntaxErr.Pos).To(Equal(2))
	})
})

var _ = Describe("Tree JSON", func() {
	It("should encode leaves with null children", func() {
		data, err := json.Marshal(expr.Binary("+", expr.Leaf("a"), expr.Leaf("b")))

		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(
			`{"value":"+","left":{"value":"a","left":null,"right":null},` +
				`"right":{"value":"b","left":null,"right":null}}`))
	})

	It("should read a tree", func() {
		tree, err := expr.ReadTree(strings.NewReader(
			`{"value":"*","left":{"value":"a"},"right":{"value":"2"}}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(tree.String()).To(Equal("(a*2)"))
	})

	It("should reject a null tree", func() {
		_, err := expr.ReadTree(strings.NewReader(`null`))

		Expect(err).To(HaveOccurred())
	})

	It("should print the tree sideways", func() {
		var buf bytes.Buffer
		expr.Binary("+", expr.Leaf("a"), expr.Leaf("b")).Print(&buf)

		Expect(buf.String()).To(Equal("    -> b\n-> +\n    -> a\n"))
	})
})
