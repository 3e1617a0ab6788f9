package keywords

import (
	"bufio"
	"os"
	"strings"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
)

// platforms 已知平台名，关键字中若包含则折叠为平台名后入库
var platforms = []string{"facebook", "instagram"}

// Load 读取关键字文件，一行一个，忽略空行。
// 文件不存在视为空关键字集，记录日志后正常返回。
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Log.Warnf("关键字文件 %s 不存在", path)
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var kws []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			kws = append(kws, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return kws, nil
}

// Canonical 返回入库用的关键字：包含已知平台名的搜索词折叠为该平台名，
// 其余原样返回。展示用关键字与入库关键字因此可能不同。
func Canonical(term string) string {
	lower := strings.ToLower(term)
	for _, p := range platforms {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return term
}
