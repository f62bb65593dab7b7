package config

import (
	"os"
	"path/filepath"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Resolve 决定配置文件路径：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 configs/conf.yml。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		if p := filepath.Join(curDir, cfgName); fileExist(p) {
			return p, nil
		}
		if p, ok := findUpward(curDir, cfgName); ok {
			return p, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	if p, ok := findUpward(curDir, DefaultConfigRelPath); ok {
		return p, nil
	}
	return "", &NotFoundError{StartDir: curDir, RelPath: DefaultConfigRelPath}
}

type NotFoundError struct {
	StartDir string
	RelPath  string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + e.RelPath + " upward from: " + e.StartDir
}

func findUpward(startDir, rel string) (string, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
