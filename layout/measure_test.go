package layout

import "testing"

// TestWidthEmpty 空串宽度恒为 0，与追踪无关。
func TestWidthEmpty(t *testing.T) {
	face := testFace()
	if w := Width(face, "", 0); w != 0 {
		t.Fatalf("空串宽度应为 0: %g", w)
	}
	if w := Width(face, "", -8); w != 0 {
		t.Fatalf("空串加追踪宽度应为 0: %g", w)
	}
}

// TestWidthNoTracking 追踪为 0 时退化为整串包围盒宽度。
func TestWidthNoTracking(t *testing.T) {
	face := testFace()
	if w := Width(face, "Radio", 0); w != face.TextWidth("Radio") {
		t.Fatalf("无追踪宽度应等于 TextWidth: %g", w)
	}
}

// TestTrackedWidthExcludesTrailingTracking 追踪只插在字符之间（n-1 份），
// 最后一个字符之后不再追加。
func TestTrackedWidthExcludesTrailingTracking(t *testing.T) {
	face := testFace() // 每字符 10
	// 5 个字符：5*10 + (-8)*4 = 18
	if w := Width(face, "Radio", -8); w != 18 {
		t.Fatalf("追踪宽度错误: got=%g want=18", w)
	}
	// 单字符没有字符间隙，追踪不参与
	if w := Width(face, "R", -8); w != 10 {
		t.Fatalf("单字符追踪宽度错误: got=%g want=10", w)
	}
}

// TestWidthPositiveTracking 正追踪按同一公式放大宽度。
func TestWidthPositiveTracking(t *testing.T) {
	face := testFace()
	// 3 个字符：3*10 + 5*2 = 40
	if w := Width(face, "93.", 5); w != 40 {
		t.Fatalf("正追踪宽度错误: got=%g want=40", w)
	}
}
