package layout

import "strings"

// ellipsis 是截断标记。行尾与药丸截断统一使用三个句点。
const ellipsis = "..."

// Wrap 把长文本按空白分词后贪心折行，每行测量宽度不超过 maxWidth。
//
// 单个词自身超宽时独占一行并允许溢出（不做词内拆分）。maxLines > 0 且行数
// 超限时，只保留前 maxLines 行，并从最后一行逐词（不是逐字符）回退，直到
// 行宽加省略号不超过 maxWidth 或只剩一个词为止；该行标记 Ellipsis。
// 空输入返回零行。纯函数：相同输入永远得到相同输出。
//
// 折行与回退的宽度判断均不含 tracking（与原始绘制逻辑一致的测量口径），
// 行的纵向位置由调用方回填。
func Wrap(face Face, text string, maxWidth float64, maxLines int) []TextLine {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []TextLine
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.Join(current, " ")
		lines = append(lines, TextLine{Content: content, Width: face.TextWidth(content)})
		current = nil
	}

	for _, word := range words {
		candidate := strings.Join(append(append([]string{}, current...), word), " ")
		if face.TextWidth(candidate) <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			flush()
		}
		// 新行以该词开头；词本身超宽时也接受为溢出的单词行
		current = append(current, word)
	}
	flush()

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncateLine(face, lines[maxLines-1], maxWidth)
	}
	return lines
}

// truncateLine 从行尾逐词回退，直到加上省略号后不超宽，下限为一个词。
func truncateLine(face Face, line TextLine, maxWidth float64) TextLine {
	words := strings.Fields(line.Content)
	for len(words) > 1 {
		content := strings.Join(words, " ")
		if face.TextWidth(content)+face.TextWidth(ellipsis) <= maxWidth {
			break
		}
		words = words[:len(words)-1]
	}
	content := strings.Join(words, " ")
	return TextLine{
		Content:  content,
		Width:    face.TextWidth(content) + face.TextWidth(ellipsis),
		Ellipsis: true,
	}
}
