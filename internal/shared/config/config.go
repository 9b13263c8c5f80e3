package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// Resolve 定位配置文件：
// 1) 传入路径（相对/绝对）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) (string, error) {
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		curDir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(curDir, cfgName), nil
	}
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
